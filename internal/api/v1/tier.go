package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/api/dto"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/service"
)

type TierHandler struct {
	service service.TierService
	log     *logger.Logger
}

func NewTierHandler(service service.TierService, log *logger.Logger) *TierHandler {
	return &TierHandler{service: service, log: log}
}

func (h *TierHandler) CreateTier(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTier(ctx, req)
	if err != nil {
		h.log.Error("Failed to create tier", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TierHandler) GetTier(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.GetTier(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TierHandler) ListTiers(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.ListTiers(ctx)
	if err != nil {
		h.log.Error("Failed to list tiers", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TierHandler) UpdateTier(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTier(ctx, c.Param("id"), req)
	if err != nil {
		h.log.Error("Failed to update tier", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TierHandler) DeleteTier(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.DeleteTier(ctx, c.Param("id")); err != nil {
		h.log.Error("Failed to delete tier", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tier deleted successfully"})
}
