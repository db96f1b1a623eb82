package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/pricing"
)

// CheckoutHandler handles quote and order HTTP requests. Everything
// here requires an authenticated user.
type CheckoutHandler struct {
	BaseHandler
	checkoutService *pricing.CheckoutService
	requireAuth     gin.HandlerFunc
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *pricing.CheckoutService, requireAuth gin.HandlerFunc) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		requireAuth:     requireAuth,
	}
}

// RegisterRoutes registers checkout routes on the given group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkout := rg.Group("/checkout", h.requireAuth)
	checkout.GET("/quote", h.Quote)
	checkout.POST("/orders", h.PlaceOrder)

	orders := rg.Group("/orders", h.requireAuth)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
}

// Quote prices the current cart without placing an order. Quantities
// are clamped to current stock and an optional coupon is applied.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), userID, c.Query("coupon"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// PlaceOrder turns the current cart into a paid order and clears the
// cart. Prices are snapshotted at placement time.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req pricing.PlaceOrderRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ListOrders returns the user's order history, newest first
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var filter pricing.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetOrder returns one of the user's orders. Other users' orders read
// as not found.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
