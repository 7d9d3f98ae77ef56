package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTierSettings(t *testing.T) {
	s := NewTierSettings(uuid.New())

	require.Len(t, s.Thresholds, 4)
	assert.Equal(t, TierCodeRegular, s.Thresholds[0].Code)
	assert.Equal(t, TierCodeDiamond, s.Thresholds[3].Code)
	assert.True(t, s.Thresholds[1].MinSpend.Equal(decimal.NewFromInt(2_000_000)))
	assert.Equal(t, int64(50), s.Thresholds[3].MinOrders)
}

func TestComputeTier(t *testing.T) {
	s := NewTierSettings(uuid.New())

	tests := []struct {
		name       string
		totalSpent int64
		orderCount int64
		want       string
	}{
		{"new customer", 0, 0, TierCodeRegular},
		{"below silver on both", 1_999_999, 4, TierCodeRegular},
		{"silver by spend", 2_000_000, 0, TierCodeSilver},
		{"silver by orders", 0, 5, TierCodeSilver},
		{"gold by spend only", 10_000_000, 3, TierCodeGold},
		{"gold by orders only", 500_000, 20, TierCodeGold},
		{"diamond by spend", 50_000_000, 1, TierCodeDiamond},
		{"diamond by orders", 0, 50, TierCodeDiamond},
		{"highest match wins", 60_000_000, 100, TierCodeDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ComputeTier(decimal.NewFromInt(tt.totalSpent), tt.orderCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceThresholds(t *testing.T) {
	s := NewTierSettings(uuid.New())

	t.Run("accepts a higher ladder", func(t *testing.T) {
		next := defaultThresholds(s.ID)
		next[3].MinSpend = decimal.NewFromInt(100_000_000)
		require.NoError(t, s.ReplaceThresholds(next))
		assert.True(t, s.FindThreshold(TierCodeDiamond).MinSpend.Equal(decimal.NewFromInt(100_000_000)))
	})

	t.Run("rejects missing tiers", func(t *testing.T) {
		err := s.ReplaceThresholds(s.Thresholds[:3])
		require.Error(t, err)
	})

	t.Run("rejects reordered codes", func(t *testing.T) {
		next := defaultThresholds(s.ID)
		next[1], next[2] = next[2], next[1]
		require.Error(t, s.ReplaceThresholds(next))
	})

	t.Run("rejects decreasing spend up the ladder", func(t *testing.T) {
		next := defaultThresholds(s.ID)
		next[2].MinSpend = decimal.NewFromInt(1_000_000) // below silver
		require.Error(t, s.ReplaceThresholds(next))
	})

	t.Run("rejects decreasing orders up the ladder", func(t *testing.T) {
		next := defaultThresholds(s.ID)
		next[3].MinOrders = 10 // below gold
		require.Error(t, s.ReplaceThresholds(next))
	})

	t.Run("rejects negative thresholds", func(t *testing.T) {
		next := defaultThresholds(s.ID)
		next[1].MinOrders = -1
		require.Error(t, s.ReplaceThresholds(next))
	})
}

func TestApplyTier(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Lê Văn C", "0901111222")
	require.NoError(t, err)
	require.Equal(t, TierCodeRegular, c.Tier)

	t.Run("promotes upward", func(t *testing.T) {
		assert.True(t, c.ApplyTier(TierCodeGold))
		assert.Equal(t, TierCodeGold, c.Tier)
	})

	t.Run("same tier is a no-op", func(t *testing.T) {
		assert.False(t, c.ApplyTier(TierCodeGold))
	})

	t.Run("demotes downward", func(t *testing.T) {
		assert.True(t, c.ApplyTier(TierCodeSilver))
		assert.Equal(t, TierCodeSilver, c.Tier)
	})

	t.Run("unknown tier is ignored", func(t *testing.T) {
		assert.False(t, c.ApplyTier("titan"))
		assert.Equal(t, TierCodeSilver, c.Tier)
	})
}

func TestCustomerLifetimeFigures(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Phạm D", "")
	require.NoError(t, err)

	t.Run("new orders bump only the counter", func(t *testing.T) {
		c.RecordNewOrder()
		c.RecordNewOrder()

		assert.Equal(t, int64(2), c.OrderCount)
		assert.True(t, c.TotalSpent.IsZero())
	})

	t.Run("completions add only the spend", func(t *testing.T) {
		c.RecordCompletedOrder(decimal.NewFromInt(500_000))
		c.RecordCompletedOrder(decimal.NewFromInt(250_000))

		assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(750_000)))
		assert.Equal(t, int64(2), c.OrderCount)
	})
}
