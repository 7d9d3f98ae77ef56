package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	shopID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(shopID, "Áo sơ mi trắng", decimal.NewFromInt(250_000))
		require.NoError(t, err)

		assert.Equal(t, shopID, p.ShopID)
		assert.Equal(t, ProductStatusActive, p.Status)
		assert.Zero(t, p.Quantity)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(shopID, "", decimal.NewFromInt(1))
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(shopID, "x", decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}

func TestProductStock(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Váy hoa", decimal.NewFromInt(400_000))
	require.NoError(t, err)

	require.NoError(t, p.SetQuantity(10))
	assert.True(t, p.HasStock(10))
	assert.False(t, p.HasStock(11))

	require.Error(t, p.SetQuantity(-1))
	assert.Equal(t, int64(10), p.Quantity)
}

func TestProductPrices(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Túi xách", decimal.NewFromInt(900_000))
	require.NoError(t, err)

	require.NoError(t, p.SetPrice(decimal.NewFromInt(850_000)))
	require.NoError(t, p.SetCostPrice(decimal.NewFromInt(500_000)))
	require.Error(t, p.SetPrice(decimal.NewFromInt(-1)))
}
