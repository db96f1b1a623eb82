package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockGuestCartStore is a mock implementation of GuestCartStore
type MockGuestCartStore struct {
	mock.Mock
}

func (m *MockGuestCartStore) Get(ctx context.Context, token string) (*cart.GuestCart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.GuestCart), args.Error(1)
}

func (m *MockGuestCartStore) Put(ctx context.Context, guestCart *cart.GuestCart) error {
	args := m.Called(ctx, guestCart)
	return args.Error(0)
}

func (m *MockGuestCartStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func testProduct(t *testing.T, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	return p
}

func userCart(t *testing.T, userID uuid.UUID) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(userID)
	require.NoError(t, err)
	return c
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty cart when none exists", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		resp, err := service.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, resp.UserID)
		assert.Empty(t, resp.Lines)
		cartRepo.AssertNotCalled(t, "Save")
	})

	t.Run("enriches lines with product data", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 10)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 10)
		require.NoError(t, err)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

		resp, err := service.GetCart(ctx, userID)

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Keyboard", resp.Lines[0].Name)
		assert.Equal(t, 2, resp.Lines[0].Quantity)
		assert.Equal(t, 10, resp.Lines[0].AvailableStock)
		assert.True(t, resp.Lines[0].LineTotal.Equal(product.Price.Mul(decimal.NewFromInt(2))))
	})

	t.Run("prunes lines whose product vanished", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 10)
		vanishedID := uuid.New()

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 10)
		require.NoError(t, err)
		_, err = c.Add(vanishedID, 1, 10)
		require.NoError(t, err)

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := service.GetCart(ctx, userID)

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, product.ID, resp.Lines[0].ProductID)
		cartRepo.AssertCalled(t, "Save", ctx, c)
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 10)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 3})

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 3, resp.Lines[0].Quantity)
	})

	t.Run("clamps at available stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 4)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 4)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 10})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Lines[0].Quantity)
	})

	t.Run("rejects out of stock product", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 0)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, "Only 0 items available in stock", domainErr.Message)
		cartRepo.AssertNotCalled(t, "Save")
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		productID := uuid.New()

		productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := service.AddItem(ctx, uuid.New(), AddItemRequest{ProductID: productID, Quantity: 1})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("zero removes the line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 10)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 10)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil).Maybe()

		resp, err := service.SetQuantity(ctx, userID, product.ID, 0)

		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
	})

	t.Run("clamps to stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 3)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 1, 3)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.SetQuantity(ctx, userID, product.ID, 99)

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Lines[0].Quantity)
	})
}

func TestCartService_IncrementItem(t *testing.T) {
	ctx := context.Background()

	t.Run("raises quantity by one", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 10)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 10)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.IncrementItem(ctx, userID, product.ID)

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Lines[0].Quantity)
	})

	t.Run("rejects increment when stock is exhausted", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 2)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 2)
		require.NoError(t, err)
		product.Stock = 0

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)

		_, err = service.IncrementItem(ctx, userID, product.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, "Only 0 items available in stock", domainErr.Message)
		assert.Equal(t, 2, c.Quantity(product.ID))
		cartRepo.AssertNotCalled(t, "Save")
	})
}

func TestCartService_DecrementItem(t *testing.T) {
	ctx := context.Background()

	t.Run("decrement works after stock runs out", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 2)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 2, 2)
		require.NoError(t, err)
		product.Stock = 0

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil).Maybe()

		resp, err := service.DecrementItem(ctx, userID, product.ID)

		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
	})

	t.Run("missing line is not found", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo, nil, nil)
		userID := uuid.New()

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := service.DecrementItem(ctx, userID, uuid.New())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestCartService_MergeGuestCart(t *testing.T) {
	ctx := context.Background()

	t.Run("sums and clamps merged quantities", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewCartService(cartRepo, productRepo, guestStore, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 5)

		c := userCart(t, userID)
		_, err := c.Add(product.ID, 3, 5)
		require.NoError(t, err)

		guest := cart.NewGuestCart("guest-token")
		guest.Lines = []cart.GuestLine{{ProductID: product.ID, Quantity: 4}}

		cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		guestStore.On("Get", ctx, "guest-token").Return(guest, nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		cartRepo.On("Save", ctx, c).Return(nil)
		guestStore.On("Delete", ctx, "guest-token").Return(nil)

		resp, err := service.MergeGuestCart(ctx, userID, "guest-token")

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 5, resp.Lines[0].Quantity)
		guestStore.AssertCalled(t, "Delete", ctx, "guest-token")
	})

	t.Run("skips guest lines whose product vanished", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewCartService(cartRepo, productRepo, guestStore, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 5)
		vanishedID := uuid.New()

		guest := cart.NewGuestCart("guest-token")
		guest.Lines = []cart.GuestLine{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: vanishedID, Quantity: 7},
		}

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		guestStore.On("Get", ctx, "guest-token").Return(guest, nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)
		guestStore.On("Delete", ctx, "guest-token").Return(nil)

		resp, err := service.MergeGuestCart(ctx, userID, "guest-token")

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, product.ID, resp.Lines[0].ProductID)
	})

	t.Run("unknown guest token merges nothing", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewCartService(cartRepo, productRepo, guestStore, nil)
		userID := uuid.New()

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		guestStore.On("Get", ctx, "stale-token").Return(nil, shared.ErrNotFound)

		resp, err := service.MergeGuestCart(ctx, userID, "stale-token")

		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
		cartRepo.AssertNotCalled(t, "Save")
		guestStore.AssertNotCalled(t, "Delete")
	})

	t.Run("guest cart survives a failed save", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewCartService(cartRepo, productRepo, guestStore, nil)
		userID := uuid.New()
		product := testProduct(t, "Keyboard", 50, 5)

		guest := cart.NewGuestCart("guest-token")
		guest.Lines = []cart.GuestLine{{ProductID: product.ID, Quantity: 2}}

		cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)
		guestStore.On("Get", ctx, "guest-token").Return(guest, nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		cartRepo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := service.MergeGuestCart(ctx, userID, "guest-token")

		assert.Error(t, err)
		guestStore.AssertNotCalled(t, "Delete")
	})
}

func TestGuestCartService(t *testing.T) {
	ctx := context.Background()

	t.Run("blank token mints a new cart", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewGuestCartService(guestStore, productRepo)
		product := testProduct(t, "Keyboard", 50, 10)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		guestStore.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)
		guestStore.On("Put", ctx, mock.AnythingOfType("*cart.GuestCart")).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.AddItem(ctx, "", AddItemRequest{ProductID: product.ID, Quantity: 2})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 2, resp.Lines[0].Quantity)
	})

	t.Run("add clamps at stock", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewGuestCartService(guestStore, productRepo)
		product := testProduct(t, "Keyboard", 50, 3)

		existing := cart.NewGuestCart("token-1")
		existing.Lines = []cart.GuestLine{{ProductID: product.ID, Quantity: 2}}

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		guestStore.On("Get", ctx, "token-1").Return(existing, nil)
		guestStore.On("Put", ctx, existing).Return(nil)
		productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

		resp, err := service.AddItem(ctx, "token-1", AddItemRequest{ProductID: product.ID, Quantity: 5})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Lines[0].Quantity)
	})

	t.Run("expired token reads as empty cart", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewGuestCartService(guestStore, productRepo)

		guestStore.On("Get", ctx, "stale").Return(nil, shared.ErrNotFound)

		resp, err := service.GetCart(ctx, "stale")

		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
		assert.Equal(t, "stale", resp.Token)
	})

	t.Run("clear deletes the stored cart", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		guestStore := new(MockGuestCartStore)
		service := NewGuestCartService(guestStore, productRepo)

		guestStore.On("Delete", ctx, "token-1").Return(nil)

		require.NoError(t, service.ClearCart(ctx, "token-1"))
		guestStore.AssertExpectations(t)
	})
}
