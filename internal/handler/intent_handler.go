package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/internal/middleware"
	"github.com/roadshop/checkout-backend/internal/service"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// IntentHandler handles payment intent creation
type IntentHandler struct {
	intents *service.IntentService
}

// NewIntentHandler creates a new IntentHandler
func NewIntentHandler(intents *service.IntentService) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// CreateIntent handles POST /api/payment-intents.
// The response body is the bare intent document, not the API envelope,
// because the frontend consumes it directly.
func (h *IntentHandler) CreateIntent(c *gin.Context) {
	var req domain.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "currency is required")
		return
	}

	requestID := c.GetHeader("X-Request-ID")

	resp, err := h.intents.CreateIntent(c.Request.Context(), req, requestID, c.ClientIP())
	if err != nil {
		middleware.CountIntentOutcome("failed")
		switch {
		case errors.Is(err, common.ErrCurrencyRequired):
			common.ErrorResponse(c, http.StatusBadRequest, "currency is required")
		case errors.Is(err, common.ErrSecretKeyMissing):
			common.ErrorResponse(c, http.StatusInternalServerError, "payment processing is not configured")
		default:
			logger.Error("create payment intent: %v", err)
			common.ErrorResponse(c, http.StatusBadGateway, "failed to create payment intent")
		}
		return
	}

	middleware.CountIntentOutcome("created")
	c.JSON(http.StatusOK, resp)
}
