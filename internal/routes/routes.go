package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wear404_storefront/internal/config"
	"wear404_storefront/internal/handlers"
	"wear404_storefront/internal/metrics"
	"wear404_storefront/internal/middleware"
)

// Deps are the components the routes are bound to.
type Deps struct {
	Handler *handlers.Handler
	Metrics *metrics.Metrics
	Counter middleware.Counter
	Limits  config.RateLimitConfig
	Logger  *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	counter := d.Counter
	if counter == nil {
		counter = middleware.NewMemoryCounter(nil)
	}
	searchLimit := middleware.RateLimit(counter, middleware.Limit{Name: "search", Max: d.Limits.Search, Window: d.Limits.Window}, logger)
	cartLimit := middleware.RateLimit(counter, middleware.Limit{Name: "cart_add", Max: d.Limits.CartAdd, Window: d.Limits.Window}, logger)

	r.Use(cors.Default())

	h := d.Handler
	r.GET("/health", h.Health)
	r.GET("/ws", h.WebSocket)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Catalog
		api.GET("/products", searchLimit, h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/categories", h.ListCategories)
		api.POST("/filters/clear", h.ClearFilters)
		api.POST("/catalog/reload", h.ReloadCatalog)

		// Cart
		api.GET("/cart", h.GetCart)
		api.POST("/cart/add", cartLimit, h.AddToCart)
		api.PUT("/cart/:productId", h.UpdateCartItem)
		api.PATCH("/cart/:productId/size", h.SelectCartItemSize)
		api.DELETE("/cart/:productId", h.RemoveFromCart)
		api.DELETE("/cart", h.ClearCart)
	}
}
