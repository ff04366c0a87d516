package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/api"
	v1 "github.com/kivee/kivee/internal/api/v1"
	"github.com/kivee/kivee/internal/cache"
	"github.com/kivee/kivee/internal/config"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/repository"
	"github.com/kivee/kivee/internal/service"
	"github.com/kivee/kivee/internal/types"
	"github.com/kivee/kivee/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewTierRepository,
			repository.NewTrialRepository,
			repository.NewProductRepository,
			repository.NewStudentRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewPricingService,
			service.NewBillingService,
			service.NewPaymentService,
			service.NewTierService,
			service.NewTrialService,
			service.NewProductService,
			service.NewStudentService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(log *logger.Logger) cache.Cache {
	return cache.Initialize(log)
}

func provideHandlers(
	logger *logger.Logger,
	tierService service.TierService,
	trialService service.TrialService,
	productService service.ProductService,
	studentService service.StudentService,
	paymentService service.PaymentService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Tier:    v1.NewTierHandler(tierService, logger),
		Trial:   v1.NewTrialHandler(trialService, logger),
		Product: v1.NewProductHandler(productService, logger),
		Student: v1.NewStudentHandler(studentService, paymentService, logger),
		Payment: v1.NewPaymentHandler(paymentService, logger),
	}
}

func provideRouter(handlers api.Handlers, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
