// Package handler exposes the checkout backend HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/service"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// ConfigHandler serves the static-shaped checkout documents the
// frontend fetches at page load: the method catalog, per-method detail
// docs, and the mock intent used when the live endpoint is down.
type ConfigHandler struct {
	methods *service.MethodService
	intents *service.IntentService
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(methods *service.MethodService, intents *service.IntentService) *ConfigHandler {
	return &ConfigHandler{methods: methods, intents: intents}
}

// GetMethodCatalog serves payment-methods.json
func (h *ConfigHandler) GetMethodCatalog(c *gin.Context) {
	data, err := h.methods.CatalogJSON(c.Request.Context())
	if err != nil {
		logger.Error("render method catalog: %v", err)
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load payment methods")
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// MethodDetail serves one method-<id>.json document. The id is bound at
// route registration because the legacy paths put it mid-segment.
func (h *ConfigHandler) MethodDetail(methodID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := h.methods.DetailJSON(c.Request.Context(), methodID)
		if err != nil {
			common.ErrorResponse(c, http.StatusNotFound, "payment method not found")
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	}
}

// GetTestPaymentIntent serves the mock intent document the frontend
// falls back to when intent creation fails
func (h *ConfigHandler) GetTestPaymentIntent(c *gin.Context) {
	publishableKey := h.intents.PublishableKey()
	if publishableKey == "" {
		publishableKey = "pk_test_mock"
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret":   "pi_mock_0000000000_secret_0000000000",
		"publishableKey": publishableKey,
		"message":        "mock payment intent for offline development",
	})
}

// MethodIDs lists the catalog ids for route registration
func (h *ConfigHandler) MethodIDs() []string {
	catalog := h.methods.Catalog()
	ids := make([]string, 0, len(catalog.Methods))
	for _, m := range catalog.Methods {
		ids = append(ids, m.ID)
	}
	return ids
}
