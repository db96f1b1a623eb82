package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart HTTP requests. Authenticated carts live
// under /cart; anonymous carts live under /guest-cart and are keyed by
// the X-Guest-Cart-Token header.
type CartHandler struct {
	BaseHandler
	cartService  *cartapp.CartService
	guestService *cartapp.GuestCartService
	requireAuth  gin.HandlerFunc
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	cartService *cartapp.CartService,
	guestService *cartapp.GuestCartService,
	requireAuth gin.HandlerFunc,
) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		guestService: guestService,
		requireAuth:  requireAuth,
	}
}

// RegisterRoutes registers cart routes on the given group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart", h.requireAuth)
	cart.GET("", h.GetCart)
	cart.DELETE("", h.ClearCart)
	cart.POST("/items", h.AddItem)
	cart.PUT("/items/:id", h.SetQuantity)
	cart.POST("/items/:id/increment", h.IncrementItem)
	cart.POST("/items/:id/decrement", h.DecrementItem)
	cart.DELETE("/items/:id", h.RemoveItem)
	cart.POST("/sync", h.Sync)

	guest := rg.Group("/guest-cart")
	guest.GET("", h.GetGuestCart)
	guest.DELETE("", h.ClearGuestCart)
	guest.POST("/items", h.AddGuestItem)
	guest.PUT("/items/:id", h.SetGuestQuantity)
	guest.DELETE("/items/:id", h.RemoveGuestItem)
}

// GetCart returns the authenticated user's cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem adds a product to the cart, clamping to available stock
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetQuantity sets a line's quantity. Zero removes the line.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req cartapp.SetQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// IncrementItem raises a line's quantity by one
func (h *CartHandler) IncrementItem(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.IncrementItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// DecrementItem lowers a line's quantity by one. Reaching zero removes
// the line.
func (h *CartHandler) DecrementItem(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.DecrementItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// ClearCart removes every line from the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.ClearCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// Sync folds a guest cart into the user's cart. The token comes from
// the body or the X-Guest-Cart-Token header.
func (h *CartHandler) Sync(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req cartapp.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GuestToken == "" {
		req.GuestToken = middleware.GetGuestCartToken(c)
	}
	if req.GuestToken == "" {
		h.BadRequest(c, "Missing guest cart token")
		return
	}

	cart, err := h.cartService.MergeGuestCart(c.Request.Context(), userID, req.GuestToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// GetGuestCart returns the anonymous cart for the token header. An
// unknown or expired token reads as an empty cart.
func (h *CartHandler) GetGuestCart(c *gin.Context) {
	cart, err := h.guestService.GetCart(c.Request.Context(), middleware.GetGuestCartToken(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddGuestItem adds a product to the anonymous cart. A blank token
// mints a new cart; the response carries the token to send back.
func (h *CartHandler) AddGuestItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.guestService.AddItem(c.Request.Context(), middleware.GetGuestCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetGuestQuantity sets a line's quantity on the anonymous cart
func (h *CartHandler) SetGuestQuantity(c *gin.Context) {
	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req cartapp.SetQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.guestService.SetQuantity(c.Request.Context(), middleware.GetGuestCartToken(c), productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveGuestItem removes a line from the anonymous cart
func (h *CartHandler) RemoveGuestItem(c *gin.Context) {
	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	cart, err := h.guestService.RemoveItem(c.Request.Context(), middleware.GetGuestCartToken(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// ClearGuestCart drops the anonymous cart entirely
func (h *CartHandler) ClearGuestCart(c *gin.Context) {
	if err := h.guestService.ClearCart(c.Request.Context(), middleware.GetGuestCartToken(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
