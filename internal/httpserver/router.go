package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"magento-quote-replica/internal/domain"
	"magento-quote-replica/internal/service/cart"
)

// CartService is the slice of the cart service the transport needs.
type CartService interface {
	CreateEmptyCart(ctx context.Context, storeID int64) (int64, error)
	AssignCustomer(ctx context.Context, cartID, customerID, storeID int64) error
	AddItem(ctx context.Context, cartID int64, in cart.AddItemInput) (*domain.Cart, error)
	GetCartForCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
}

// CheckoutService is the slice of the checkout service the transport needs.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, cartID int64) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}

// Deps carries the services the router dispatches to.
type Deps struct {
	CartSvc     CartService
	CheckoutSvc CheckoutService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default(), requestIDMiddleware(), metricsMiddleware())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &quoteHandler{carts: deps.CartSvc, checkout: deps.CheckoutSvc, logger: logger}

	v1 := router.Group("/V1")
	{
		v1.POST("/carts", h.createCart)
		v1.PUT("/carts/:cartId", h.assignCustomer)
		v1.POST("/carts/:cartId/items", h.addItem)
		v1.PUT("/carts/:cartId/order", h.placeOrder)
		v1.GET("/orders/:orderId", h.getOrder)
		v1.GET("/customer/:customerId/cart", h.cartForCustomer)
	}

	return router
}
