package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/api/dto"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/service"
)

type TrialHandler struct {
	service service.TrialService
	log     *logger.Logger
}

func NewTrialHandler(service service.TrialService, log *logger.Logger) *TrialHandler {
	return &TrialHandler{service: service, log: log}
}

func (h *TrialHandler) CreateTrial(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTrial(ctx, req)
	if err != nil {
		h.log.Error("Failed to create trial", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TrialHandler) GetTrial(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.GetTrial(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrialHandler) ListTrials(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.ListTrials(ctx)
	if err != nil {
		h.log.Error("Failed to list trials", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrialHandler) UpdateTrial(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UpdateTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTrial(ctx, c.Param("id"), req)
	if err != nil {
		h.log.Error("Failed to update trial", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TrialHandler) DeleteTrial(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.DeleteTrial(ctx, c.Param("id")); err != nil {
		h.log.Error("Failed to delete trial", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trial deleted successfully"})
}
