package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AllowedImageContentTypes whitelists content types accepted for product
// images. SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3-compatible storage or a stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ProductService handles catalog management operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	storage      ObjectStorageService
	uploadExpiry time.Duration
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, storage ObjectStorageService, uploadExpiry time.Duration) *ProductService {
	if uploadExpiry <= 0 {
		uploadExpiry = 15 * time.Minute
	}
	return &ProductService{
		productRepo:  productRepo,
		storage:      storage,
		uploadExpiry: uploadExpiry,
	}
}

// Create creates a new product. Only admins may create products.
func (s *ProductService) Create(ctx context.Context, actor Actor, req CreateProductRequest) (*ProductResponse, error) {
	if !actor.IsAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can create products")
	}

	exists, err := s.productRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	price := valueobject.NewMoneyUSD(req.Price)
	product, err := catalog.NewProduct(req.Name, req.Description, price, req.Stock)
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		product.CreatedBy = req.CreatedBy
	} else if actor.UserID != uuid.Nil {
		id := actor.UserID
		product.CreatedBy = &id
	}

	if req.Category != "" {
		if err := product.SetCategory(req.Category); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.PromotionCode != "" {
		pct := decimal.Zero
		if req.DiscountPercentage != nil {
			pct = *req.DiscountPercentage
		}
		if err := product.SetPromotion(req.PromotionCode, pct); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product. Admins may update any product; a regular
// user may only update products they created.
func (s *ProductService) Update(ctx context.Context, actor Actor, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWrite(actor, product); err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if name != product.Name {
			exists, err := s.productRepo.ExistsByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
			}
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.SetPrice(valueobject.NewMoneyUSD(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := product.SetCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.PromotionCode != nil {
		if *req.PromotionCode == "" {
			product.ClearPromotion()
		} else {
			pct := product.DiscountPercentage
			if req.DiscountPercentage != nil {
				pct = *req.DiscountPercentage
			}
			if err := product.SetPromotion(*req.PromotionCode, pct); err != nil {
				return nil, err
			}
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product. Only admins may delete products.
func (s *ProductService) Delete(ctx context.Context, actor Actor, productID uuid.UUID) error {
	if !actor.IsAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete products")
	}
	return s.productRepo.Delete(ctx, productID)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.buildFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// InitiateImageUpload returns a presigned URL for uploading a product
// image. Only admins may upload images.
func (s *ProductService) InitiateImageUpload(ctx context.Context, actor Actor, productID uuid.UUID, req InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	if !actor.IsAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can upload product images")
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !AllowedImageContentTypes[contentType] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for product images", req.ContentType))
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	storageKey := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New(), ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.uploadExpiry)
	if err != nil {
		return nil, err
	}

	return &InitiateImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmImageUpload verifies the uploaded object exists and records its
// storage key as the product image
func (s *ProductService) ConfirmImageUpload(ctx context.Context, actor Actor, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	if !actor.IsAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can upload product images")
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Storage key is required")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "Uploaded image was not found in storage")
	}

	if err := product.SetImageURL(storageKey); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Actor identifies the authenticated caller for authorization checks
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func (s *ProductService) authorizeWrite(actor Actor, product *catalog.Product) error {
	if actor.IsAdmin {
		return nil
	}
	if product.CreatedBy != nil && *product.CreatedBy == actor.UserID {
		return nil
	}
	return shared.NewDomainError("FORBIDDEN", "You do not have permission to modify this product")
}

func (s *ProductService) buildFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}

	return domainFilter
}
