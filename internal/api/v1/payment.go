package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/service"
	"github.com/kivee/kivee/internal/types"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// ListPayments returns the academy-wide finance view. An optional
// status query parameter narrows the list to paid or unpaid entries.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()

	var status *types.PaymentStatus
	if raw := c.Query("status"); raw != "" {
		parsed := types.PaymentStatus(strings.ToUpper(raw))
		if err := parsed.Validate(); err != nil {
			c.Error(err)
			return
		}
		status = &parsed
	}

	records, err := h.service.ListPayments(ctx, status)
	if err != nil {
		h.log.Error("Failed to list payments", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListPaymentsResponse{
		Items: records,
		Total: len(records),
	})
}
