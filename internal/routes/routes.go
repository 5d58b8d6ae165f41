// Package routes wires the HTTP surface of the checkout backend.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadshop/checkout-backend/internal/handler"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	configHandler *handler.ConfigHandler,
	intentHandler *handler.IntentHandler,
) {
	// Flat document paths served to the checkout page. The method detail
	// ids sit mid-segment (method-<id>.json), which gin's router cannot
	// parameterize, so each catalog entry gets an exact route.
	router.GET("/payment-methods.json", configHandler.GetMethodCatalog)
	for _, id := range configHandler.MethodIDs() {
		router.GET("/method-"+id+".json", configHandler.MethodDetail(id))
	}
	router.GET("/test-payment-intent.json", configHandler.GetTestPaymentIntent)

	api := router.Group("/api")
	{
		api.GET("/payment-methods", configHandler.GetMethodCatalog)
		api.POST("/payment-intents", intentHandler.CreateIntent)

		// Legacy alias kept for older checkout bundles
		api.POST("/payments/create-intent", intentHandler.CreateIntent)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
