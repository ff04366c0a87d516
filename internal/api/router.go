package api

import (
	v1 "github.com/kivee/kivee/internal/api/v1"
	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Tier    *v1.TierHandler
	Trial   *v1.TrialHandler
	Product *v1.ProductHandler
	Student *v1.StudentHandler
	Payment *v1.PaymentHandler
}

func NewRouter(handlers Handlers, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.AcademyMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tiers := router.Group("/tiers")
	{
		tiers.POST("", handlers.Tier.CreateTier)
		tiers.GET("", handlers.Tier.ListTiers)
		tiers.GET("/:id", handlers.Tier.GetTier)
		tiers.PUT("/:id", handlers.Tier.UpdateTier)
		tiers.DELETE("/:id", handlers.Tier.DeleteTier)
	}

	trials := router.Group("/trials")
	{
		trials.POST("", handlers.Trial.CreateTrial)
		trials.GET("", handlers.Trial.ListTrials)
		trials.GET("/:id", handlers.Trial.GetTrial)
		trials.PUT("/:id", handlers.Trial.UpdateTrial)
		trials.DELETE("/:id", handlers.Trial.DeleteTrial)
	}

	products := router.Group("/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
		products.PUT("/:id", handlers.Product.UpdateProduct)
		products.DELETE("/:id", handlers.Product.DeleteProduct)
	}

	students := router.Group("/students")
	{
		students.POST("", handlers.Student.CreateStudent)
		students.GET("", handlers.Student.ListStudents)
		students.GET("/:id", handlers.Student.GetStudent)
		students.PUT("/:id", handlers.Student.UpdateStudent)
		students.DELETE("/:id", handlers.Student.DeleteStudent)

		students.POST("/:id/plan", handlers.Student.AssignPlan)
		students.POST("/:id/charges", handlers.Student.AddProductCharge)
		students.POST("/:id/charges/:charge_id/payment", handlers.Student.RecordPayment)
		students.DELETE("/:id/charges/:charge_id", handlers.Student.RemoveCharge)
	}

	payments := router.Group("/payments")
	{
		payments.GET("", handlers.Payment.ListPayments)
	}
}
