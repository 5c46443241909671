package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/bapesu/storefront-api/internal/domains/cart/application"
	checkoutapp "github.com/bapesu/storefront-api/internal/domains/checkout/application"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
	"github.com/bapesu/storefront-api/internal/platform/auth"
	sharederrors "github.com/bapesu/storefront-api/internal/shared/errors"
)

// Server bundles the handler dependencies.
type Server struct {
	orders    ordersports.Service
	cart      *cartapp.Store
	checkout  *checkoutapp.Controller
	verifier  *auth.Verifier
	responder *sharederrors.ChainedResponder
	logger    *slog.Logger
}

// New wires the HTTP server over the bounded-context services.
func New(orders ordersports.Service, cart *cartapp.Store, checkout *checkoutapp.Controller, verifier *auth.Verifier, logger *slog.Logger) *Server {
	return &Server{
		orders:    orders,
		cart:      cart,
		checkout:  checkout,
		verifier:  verifier,
		responder: newResponder(),
		logger:    logger,
	}
}

// Router builds the gin engine with the customer and admin surfaces.
func (s *Server) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	for _, mw := range middleware {
		router.Use(mw)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", auth.RequireAuth(s.verifier))
	{
		api.GET("/shipping-methods", s.listShippingMethods)

		api.POST("/orders", s.createOrder)
		api.GET("/orders/:id", s.getMyOrder)
		api.GET("/user/orders", s.listMyOrders)
		api.POST("/product-ratings", s.rateProduct)

		api.GET("/cart", s.getCart)
		api.POST("/cart/items", s.addCartItem)
		api.PUT("/cart/items/:productId", s.setCartItemQuantity)
		api.DELETE("/cart/items/:productId", s.removeCartItem)
		api.DELETE("/cart", s.clearCart)
		api.POST("/wishlist", s.addWishlistItem)
		api.DELETE("/wishlist/:productId", s.removeWishlistItem)

		api.GET("/checkout", s.checkoutState)
		api.POST("/checkout", s.beginCheckout)
		api.PUT("/checkout/form", s.updateCheckoutForm)
		api.POST("/checkout/next", s.checkoutNext)
		api.POST("/checkout/back", s.checkoutBack)
		api.POST("/checkout/submit", s.submitCheckout)
		api.POST("/checkout/confirm", s.confirmHandoff)
	}

	admin := router.Group("/api/admin", auth.RequireAuth(s.verifier), auth.RequireAdmin())
	{
		admin.GET("/orders", s.adminListOrders)
		admin.GET("/orders/stats", s.adminOrderStats)
		admin.PUT("/orders/:id", s.adminUpdateOrder)
		admin.DELETE("/orders/:id", s.adminDeleteOrder)
	}

	return router
}

// respondData wraps payloads in the {success, data, message} envelope the
// storefront client expects.
func respondData(c *gin.Context, status int, data any, message string) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// respondPage adds pagination metadata to the envelope.
func respondPage(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total":    total,
			"page":     page,
			"per_page": pageSize,
		},
	})
}
