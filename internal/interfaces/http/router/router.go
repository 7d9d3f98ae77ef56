package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/infrastructure/auth"
	"github.com/qlbh/backend/internal/infrastructure/logger"
	"github.com/qlbh/backend/internal/interfaces/http/handler"
	"github.com/qlbh/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers wired into the router
type Handlers struct {
	Order    *handler.OrderHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Tier     *handler.TierHandler
	Shipping *handler.ShippingHandler
	Webhook  *handler.WebhookHandler
}

// Config holds router dependencies
type Config struct {
	JWTService   *auth.JWTService
	Logger       *zap.Logger
	AllowOrigins []string
}

// Setup builds the gin engine with middleware and all routes registered.
// Webhook routes stay outside the JWT group: the carrier signs requests
// instead of carrying a bearer token.
func Setup(cfg Config, h Handlers) *gin.Engine {
	registerValidators()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.AllowOrigins}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	webhooks := engine.Group("/webhooks")
	{
		webhooks.POST("/viettelpost", h.Webhook.ViettelPost)
		webhooks.GET("/viettelpost", h.Webhook.Health)
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTService, cfg.Logger))

	orders := api.Group("/orders")
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/stats", h.Order.StatusSummary)
		orders.GET("/:id", h.Order.GetByID)
		orders.PUT("/:id", h.Order.Update)
		orders.PATCH("/:id/status", h.Order.Transition)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.GetByID)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.GetByID)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/recalculate-tier", h.Tier.Recalculate)
	}

	tiers := api.Group("/tiers")
	{
		tiers.GET("/settings", h.Tier.GetSettings)
		tiers.PUT("/settings", h.Tier.UpdateSettings)
		tiers.POST("/recalculate", h.Tier.RecalculateAll)
	}

	shipping := api.Group("/shipping")
	{
		shipping.GET("/settings", h.Shipping.GetSettings)
		shipping.PUT("/settings", h.Shipping.SaveSettings)
		shipping.DELETE("/settings", h.Shipping.DeleteSettings)
		shipping.POST("/orders/:id/send", h.Shipping.Dispatch)
		shipping.GET("/orders/:id/track", h.Shipping.Track)
		shipping.POST("/orders/:id/cancel", h.Shipping.CancelShipment)
		shipping.POST("/calculate-fee", h.Shipping.QuoteFee)
		shipping.GET("/locations/provinces", h.Shipping.ListProvinces)
		shipping.GET("/locations/districts", h.Shipping.ListDistricts)
		shipping.GET("/locations/wards", h.Shipping.ListWards)
	}

	return engine
}
