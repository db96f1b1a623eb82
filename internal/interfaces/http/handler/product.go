package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/catalog"
)

// ProductHandler handles catalog HTTP requests. Listing and reading are
// public; writes require an authenticated admin or the product's creator.
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
	requireAuth    gin.HandlerFunc
	requireAdmin   gin.HandlerFunc
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	productService *catalog.ProductService,
	requireAuth gin.HandlerFunc,
	requireAdmin gin.HandlerFunc,
) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		requireAuth:    requireAuth,
		requireAdmin:   requireAdmin,
	}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/:id", h.Get)

	products.POST("", h.requireAuth, h.requireAdmin, h.Create)
	products.PUT("/:id", h.requireAuth, h.Update)
	products.DELETE("/:id", h.requireAuth, h.requireAdmin, h.Delete)
	products.POST("/:id/image/upload", h.requireAuth, h.requireAdmin, h.InitiateImageUpload)
	products.POST("/:id/image/confirm", h.requireAuth, h.requireAdmin, h.ConfirmImageUpload)
}

// List returns a paginated product listing
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Get returns a single product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update updates product fields. Omitted fields are left unchanged.
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product from the catalog
func (h *ProductHandler) Delete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InitiateImageUpload returns a presigned URL for a product image upload
func (h *ProductHandler) InitiateImageUpload(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req catalog.InitiateImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.productService.InitiateImageUpload(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmImageUploadRequest identifies the uploaded object to attach
type ConfirmImageUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// ConfirmImageUpload verifies the uploaded object and attaches it as
// the product image
func (h *ProductHandler) ConfirmImageUpload(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req ConfirmImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.ConfirmImageUpload(c.Request.Context(), actor, id, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
