package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"magento-quote-replica/internal/domain"
	"magento-quote-replica/internal/service/cart"
)

type quoteHandler struct {
	carts    CartService
	checkout CheckoutService
	logger   *log.Logger
}

type createCartRequest struct {
	StoreID int64 `json:"storeId" binding:"required"`
}

type assignCustomerRequest struct {
	CustomerID int64 `json:"customerId" binding:"required"`
	StoreID    int64 `json:"storeId" binding:"required"`
}

func (h *quoteHandler) createCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "storeId required"})
		return
	}

	cartID, err := h.carts.CreateEmptyCart(c.Request.Context(), req.StoreID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cartID)
}

func (h *quoteHandler) assignCustomer(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		return
	}
	var req assignCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "customerId and storeId required"})
		return
	}

	if err := h.carts.AssignCustomer(c.Request.Context(), cartID, req.CustomerID, req.StoreID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *quoteHandler) addItem(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		return
	}
	var req cart.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item payload"})
		return
	}

	updated, err := h.carts.AddItem(c.Request.Context(), cartID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(updated))
}

func (h *quoteHandler) placeOrder(c *gin.Context) {
	cartID, ok := pathID(c, "cartId")
	if !ok {
		return
	}

	orderID, err := h.checkout.PlaceOrder(c.Request.Context(), cartID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderID)
}

func (h *quoteHandler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, err := h.checkout.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(order))
}

func (h *quoteHandler) cartForCustomer(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	activeCart, err := h.carts.GetCartForCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(activeCart))
}

// respondError maps error kinds to transport status codes: missing entities
// map to 404, business-rule violations to 400, everything else to 500. The
// message body carries the contract wording verbatim.
func (h *quoteHandler) respondError(c *gin.Context, err error) {
	var ve cart.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Error()})
		return
	}
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrNoActiveCart):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrCartNotAnonymous),
		errors.Is(err, domain.ErrCartWrongStore),
		errors.Is(err, domain.ErrActiveCartExists),
		errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.Printf("quote handler: %s %s err=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
