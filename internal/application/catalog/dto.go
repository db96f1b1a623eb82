package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name               string           `json:"name" binding:"required,min=2,max=100"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price" binding:"required"`
	Stock              int              `json:"stock" binding:"min=0"`
	Category           string           `json:"category" binding:"max=100"`
	ImageURL           string           `json:"image_url" binding:"omitempty,max=500"`
	PromotionCode      string           `json:"promotion_code" binding:"omitempty,max=50"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	CreatedBy          *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=2,max=100"`
	Description        *string          `json:"description"`
	Price              *decimal.Decimal `json:"price"`
	Stock              *int             `json:"stock" binding:"omitempty,min=0"`
	Category           *string          `json:"category" binding:"omitempty,max=100"`
	ImageURL           *string          `json:"image_url" binding:"omitempty,max=500"`
	PromotionCode      *string          `json:"promotion_code" binding:"omitempty,max=50"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
}

// ProductListFilter represents filtering options for product listing
type ProductListFilter struct {
	Page     int              `form:"page"`
	PageSize int              `form:"page_size"`
	OrderBy  string           `form:"order_by"`
	OrderDir string           `form:"order_dir"`
	Search   string           `form:"search"`
	Category string           `form:"category"`
	InStock  *bool            `form:"in_stock"`
	MinPrice *decimal.Decimal `form:"min_price"`
	MaxPrice *decimal.Decimal `form:"max_price"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	EffectivePrice     decimal.Decimal `json:"effective_price"`
	Stock              int             `json:"stock"`
	InStock            bool            `json:"in_stock"`
	Category           string          `json:"category,omitempty"`
	ImageURL           string          `json:"image_url,omitempty"`
	PromotionCode      string          `json:"promotion_code,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		EffectivePrice:     p.GetEffectivePriceMoney().Amount(),
		Stock:              p.Stock,
		InStock:            p.IsInStock(),
		Category:           p.Category,
		ImageURL:           p.ImageURL,
		PromotionCode:      p.PromotionCode,
		DiscountPercentage: p.DiscountPercentage,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Version:            p.Version,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// InitiateImageUploadRequest represents a request for a presigned image upload URL
type InitiateImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateImageUploadResponse carries the presigned upload URL and the
// storage key the client must confirm after uploading
type InitiateImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}
