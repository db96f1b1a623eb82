package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GuestCartService handles cart operations for anonymous visitors.
// Carts are keyed by an opaque token the client presents on each
// request; the store expires idle carts after a configured TTL.
type GuestCartService struct {
	store       cart.GuestCartStore
	productRepo catalog.ProductRepository
}

// NewGuestCartService creates a new GuestCartService
func NewGuestCartService(store cart.GuestCartStore, productRepo catalog.ProductRepository) *GuestCartService {
	return &GuestCartService{
		store:       store,
		productRepo: productRepo,
	}
}

// NewToken mints a token for a fresh guest cart
func (s *GuestCartService) NewToken() string {
	return uuid.NewString()
}

// GetCart returns the guest cart for a token. An unknown or expired
// token yields an empty cart rather than an error.
func (s *GuestCartService) GetCart(ctx context.Context, token string) (*GuestCartResponse, error) {
	if token == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Guest cart token is required")
	}

	g, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, g)
	if err != nil {
		return nil, err
	}
	return toGuestCartResponse(g, products), nil
}

// AddItem adds a product to the guest cart with the same stock clamp
// rules as the authenticated cart. A blank token starts a new cart; the
// response carries the token the client must keep.
func (s *GuestCartService) AddItem(ctx context.Context, token string, req AddItemRequest) (*GuestCartResponse, error) {
	if token == "" {
		token = s.NewToken()
	}

	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	g, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := g.Add(product.ID, req.Quantity, product.Stock); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, g)
}

// SetQuantity sets a line's quantity, clamped at stock. Zero removes
// the line.
func (s *GuestCartService) SetQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*GuestCartResponse, error) {
	if token == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Guest cart token is required")
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	g, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := g.SetQuantity(product.ID, quantity, product.Stock); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, g)
}

// RemoveItem removes a line from the guest cart
func (s *GuestCartService) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*GuestCartResponse, error) {
	if token == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Guest cart token is required")
	}

	g, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := g.Remove(productID); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, g)
}

// ClearCart deletes the guest cart entirely
func (s *GuestCartService) ClearCart(ctx context.Context, token string) error {
	if token == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Guest cart token is required")
	}
	return s.store.Delete(ctx, token)
}

func (s *GuestCartService) load(ctx context.Context, token string) (*cart.GuestCart, error) {
	g, err := s.store.Get(ctx, token)
	if err == nil {
		return g, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return cart.NewGuestCart(token), nil
	}
	return nil, err
}

func (s *GuestCartService) findProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *GuestCartService) saveAndRespond(ctx context.Context, g *cart.GuestCart) (*GuestCartResponse, error) {
	if err := s.store.Put(ctx, g); err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, g)
	if err != nil {
		return nil, err
	}
	return toGuestCartResponse(g, products), nil
}

func (s *GuestCartService) loadProducts(ctx context.Context, g *cart.GuestCart) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product, len(g.Lines))
	if len(g.Lines) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(g.Lines))
	for _, l := range g.Lines {
		ids = append(ids, l.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}
