package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/api/dto"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/service"
)

type StudentHandler struct {
	service service.StudentService
	payment service.PaymentService
	log     *logger.Logger
}

func NewStudentHandler(service service.StudentService, payment service.PaymentService, log *logger.Logger) *StudentHandler {
	return &StudentHandler{service: service, payment: payment, log: log}
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateStudent(ctx, req)
	if err != nil {
		h.log.Error("Failed to create student", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetStudent reconciles the ledger before returning, so the response
// always reflects every elapsed billing cycle
func (h *StudentHandler) GetStudent(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.GetStudent(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.ListStudents(ctx)
	if err != nil {
		h.log.Error("Failed to list students", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateStudent(ctx, c.Param("id"), req)
	if err != nil {
		h.log.Error("Failed to update student", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.DeleteStudent(ctx, c.Param("id")); err != nil {
		h.log.Error("Failed to delete student", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

func (h *StudentHandler) AssignPlan(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AssignPlan(ctx, c.Param("id"), req)
	if err != nil {
		h.log.Error("Failed to assign plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) RecordPayment(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	stu, err := h.payment.RecordPayment(ctx, c.Param("id"), c.Param("charge_id"), req.PaidAt, req.PaymentMethod)
	if err != nil {
		h.log.Error("Failed to record payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.StudentResponse{Student: stu})
}

func (h *StudentHandler) RemoveCharge(c *gin.Context) {
	ctx := c.Request.Context()
	stu, err := h.payment.RemoveCharge(ctx, c.Param("id"), c.Param("charge_id"))
	if err != nil {
		h.log.Error("Failed to remove charge", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.StudentResponse{Student: stu})
}

func (h *StudentHandler) AddProductCharge(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.AddProductChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	stu, err := h.payment.AddProductCharge(ctx, c.Param("id"), req.ProductID)
	if err != nil {
		h.log.Error("Failed to add product charge", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, &dto.StudentResponse{Student: stu})
}
