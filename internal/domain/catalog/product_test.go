package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid fields", func(t *testing.T) {
		p, err := NewProduct("Keyboard", "Mechanical keyboard", valueobject.NewMoneyUSDFromFloat(79.99), 10)
		require.NoError(t, err)
		assert.Equal(t, "Keyboard", p.Name)
		assert.Equal(t, 10, p.Stock)
		assert.Equal(t, 1, p.Version)
		assert.NotEqual(t, p.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("rejects short name", func(t *testing.T) {
		_, err := NewProduct("K", "", valueobject.NewMoneyUSDFromFloat(10), 1)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(-1), 1)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(10), -1)
		assert.Error(t, err)
	})
}

func TestProductUpdate(t *testing.T) {
	p, err := NewProduct("Keyboard", "old", valueobject.NewMoneyUSDFromFloat(10), 5)
	require.NoError(t, err)

	require.NoError(t, p.Update("Mouse", "new"))
	assert.Equal(t, "Mouse", p.Name)
	assert.Equal(t, "new", p.Description)
	assert.Equal(t, 2, p.Version)

	assert.Error(t, p.Update("", "x"))
}

func TestProductSetStock(t *testing.T) {
	p, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(10), 5)
	require.NoError(t, err)

	require.NoError(t, p.SetStock(0))
	assert.False(t, p.IsInStock())

	require.NoError(t, p.SetStock(3))
	assert.True(t, p.IsInStock())

	assert.Error(t, p.SetStock(-1))
}

func TestProductClampQuantity(t *testing.T) {
	p, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(10), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, p.ClampQuantity(8))
	assert.Equal(t, 3, p.ClampQuantity(3))
	assert.Equal(t, 0, p.ClampQuantity(0))
	assert.Equal(t, 0, p.ClampQuantity(-2))

	require.NoError(t, p.SetStock(0))
	assert.Equal(t, 0, p.ClampQuantity(1))
}

func TestProductSetPromotion(t *testing.T) {
	p, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(100), 5)
	require.NoError(t, err)

	require.NoError(t, p.SetPromotion("LAUNCH20", decimal.NewFromInt(20)))
	assert.Equal(t, "LAUNCH20", p.PromotionCode)
	assert.True(t, p.GetEffectivePriceMoney().Amount().Equal(decimal.NewFromInt(80)))

	assert.Error(t, p.SetPromotion("X", decimal.NewFromInt(101)))
	assert.Error(t, p.SetPromotion("X", decimal.NewFromInt(-1)))

	p.ClearPromotion()
	assert.Empty(t, p.PromotionCode)
	assert.True(t, p.GetEffectivePriceMoney().Equals(p.GetPriceMoney()))
}

func TestProductGetPriceMoney(t *testing.T) {
	p, err := NewProduct("Keyboard", "", valueobject.NewMoneyUSDFromFloat(79.99), 5)
	require.NoError(t, err)

	m := p.GetPriceMoney()
	assert.Equal(t, valueobject.USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(79.99)))
}
