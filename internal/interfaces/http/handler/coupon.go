package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponHandler handles coupon HTTP requests. Verification is public;
// management requires an admin.
type CouponHandler struct {
	BaseHandler
	couponService *pricing.CouponService
	requireAuth   gin.HandlerFunc
	requireAdmin  gin.HandlerFunc
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(
	couponService *pricing.CouponService,
	requireAuth gin.HandlerFunc,
	requireAdmin gin.HandlerFunc,
) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		requireAuth:   requireAuth,
		requireAdmin:  requireAdmin,
	}
}

// RegisterRoutes registers coupon routes on the given group
func (h *CouponHandler) RegisterRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	coupons.GET("/verify/:code", h.Verify)

	coupons.GET("", h.requireAuth, h.requireAdmin, h.List)
	coupons.POST("", h.requireAuth, h.requireAdmin, h.Create)
	coupons.DELETE("/:id", h.requireAuth, h.requireAdmin, h.Delete)
}

// Verify checks whether a coupon code is usable. Unknown codes read as
// 404; known-but-expired codes read as 400 so the client can tell the
// difference.
func (h *CouponHandler) Verify(c *gin.Context) {
	code := c.Param("code")

	coupon, err := h.couponService.Verify(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Coupon not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Create creates a new coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req pricing.CreateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, coupon)
}

// List returns all coupons, expired ones flagged
func (h *CouponHandler) List(c *gin.Context) {
	var req struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if !h.bindQuery(c, &req) {
		return
	}

	coupons, err := h.couponService.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupons)
}

// Delete removes a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
