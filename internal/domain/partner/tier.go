package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shared"
)

// Tier codes ordered from lowest to highest
const (
	TierCodeRegular = "thuong"
	TierCodeSilver  = "bac"
	TierCodeGold    = "vang"
	TierCodeDiamond = "kimcuong"
)

// TierOrder lists the tier codes from lowest to highest.
var TierOrder = []string{TierCodeRegular, TierCodeSilver, TierCodeGold, TierCodeDiamond}

// TierRank returns the position of a tier code in the ladder, -1 when unknown
func TierRank(code string) int {
	for i, c := range TierOrder {
		if c == code {
			return i
		}
	}
	return -1
}

// TierThreshold is the qualification rule for one tier. A customer
// qualifies when lifetime spend reaches MinSpend OR completed order
// count reaches MinOrders.
type TierThreshold struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TierSettingsID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Code           string          `gorm:"type:varchar(20);not null" json:"code"`
	Name           string          `gorm:"type:varchar(50);not null" json:"name"`
	MinSpend       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"minSpend"`
	MinOrders      int64           `gorm:"not null;default:0" json:"minOrders"`
}

// TableName returns the table name for GORM
func (TierThreshold) TableName() string {
	return "tier_thresholds"
}

// TierSettings holds a shop's tier ladder. It is the aggregate root for
// tier configuration; each shop has exactly one.
type TierSettings struct {
	shared.ShopAggregateRoot
	Thresholds []TierThreshold `gorm:"foreignKey:TierSettingsID;constraint:OnDelete:CASCADE" json:"thresholds"`
}

// TableName returns the table name for GORM
func (TierSettings) TableName() string {
	return "tier_settings"
}

// NewTierSettings creates a shop's tier ladder with the default thresholds
func NewTierSettings(shopID uuid.UUID) *TierSettings {
	s := &TierSettings{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
	}
	s.Thresholds = defaultThresholds(s.ID)
	return s
}

func defaultThresholds(settingsID uuid.UUID) []TierThreshold {
	mk := func(code, name string, minSpend int64, minOrders int64) TierThreshold {
		return TierThreshold{
			ID:             uuid.New(),
			TierSettingsID: settingsID,
			Code:           code,
			Name:           name,
			MinSpend:       decimal.NewFromInt(minSpend),
			MinOrders:      minOrders,
		}
	}
	return []TierThreshold{
		mk(TierCodeRegular, "Thường", 0, 0),
		mk(TierCodeSilver, "Bạc", 2_000_000, 5),
		mk(TierCodeGold, "Vàng", 10_000_000, 20),
		mk(TierCodeDiamond, "Kim cương", 50_000_000, 50),
	}
}

// ReplaceThresholds swaps in a new ladder after validating it
func (s *TierSettings) ReplaceThresholds(thresholds []TierThreshold) error {
	if err := validateThresholds(thresholds); err != nil {
		return err
	}
	for i := range thresholds {
		if thresholds[i].ID == uuid.Nil {
			thresholds[i].ID = uuid.New()
		}
		thresholds[i].TierSettingsID = s.ID
	}
	s.Thresholds = thresholds
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ComputeTier returns the highest tier code the given lifetime figures
// qualify for. Evaluation walks the ladder from the top so the first
// match wins. The bottom tier always matches.
func (s *TierSettings) ComputeTier(totalSpent decimal.Decimal, orderCount int64) string {
	for i := len(s.Thresholds) - 1; i >= 0; i-- {
		t := s.Thresholds[i]
		if totalSpent.GreaterThanOrEqual(t.MinSpend) || orderCount >= t.MinOrders {
			return t.Code
		}
	}
	return TierCodeRegular
}

// FindThreshold returns the threshold for a tier code, nil when absent
func (s *TierSettings) FindThreshold(code string) *TierThreshold {
	for i := range s.Thresholds {
		if s.Thresholds[i].Code == code {
			return &s.Thresholds[i]
		}
	}
	return nil
}

func validateThresholds(thresholds []TierThreshold) error {
	if len(thresholds) != len(TierOrder) {
		return shared.NewDomainError("INVALID_TIER_SETTINGS", "Tier settings must define all four tiers")
	}
	for i, t := range thresholds {
		if t.Code != TierOrder[i] {
			return shared.NewDomainError("INVALID_TIER_SETTINGS", "Tier codes must follow the fixed ladder order")
		}
		if t.Name == "" {
			return shared.NewDomainError("INVALID_TIER_SETTINGS", "Tier name cannot be empty")
		}
		if t.MinSpend.IsNegative() || t.MinOrders < 0 {
			return shared.NewDomainError("INVALID_TIER_SETTINGS", "Tier thresholds cannot be negative")
		}
		if i > 0 {
			prev := thresholds[i-1]
			if t.MinSpend.LessThan(prev.MinSpend) || t.MinOrders < prev.MinOrders {
				return shared.NewDomainError("INVALID_TIER_SETTINGS", "Tier thresholds must be non-decreasing up the ladder")
			}
		}
	}
	return nil
}
