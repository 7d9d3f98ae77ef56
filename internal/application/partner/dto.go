package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"omitempty,vn_phone,max=20"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=1000"`
	Source  string `json:"source" binding:"omitempty,oneof=instagram facebook other"`
	Notes   string `json:"notes" binding:"max=1000"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"omitempty,vn_phone,max=20"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=1000"`
	Source  string `json:"source" binding:"omitempty,oneof=instagram facebook other"`
	Notes   string `json:"notes" binding:"max=1000"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Tier     string `form:"tier"`
	Source   string `form:"source"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty"`
	Address      string          `json:"address,omitempty"`
	Source       string          `json:"source"`
	Notes        string          `json:"notes,omitempty"`
	Tier         string          `json:"tier"`
	TierName     string          `json:"tier_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	OrderCount   int64           `json:"order_count"`
	SyncedOrders int64           `json:"synced_orders,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TierThresholdInput is one rung of the ladder in update requests
type TierThresholdInput struct {
	Code      string          `json:"code" binding:"required"`
	Name      string          `json:"name" binding:"required,min=1,max=50"`
	MinSpend  decimal.Decimal `json:"min_spend"`
	MinOrders int64           `json:"min_orders"`
}

// UpdateTierSettingsRequest replaces the shop's tier ladder
type UpdateTierSettingsRequest struct {
	Thresholds []TierThresholdInput `json:"thresholds" binding:"required,min=1,dive"`
}

// TierSettingsResponse represents the tier ladder in API responses
type TierSettingsResponse struct {
	Thresholds []TierThresholdResponse `json:"thresholds"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// TierThresholdResponse represents one rung of the ladder
type TierThresholdResponse struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	MinSpend  decimal.Decimal `json:"min_spend"`
	MinOrders int64           `json:"min_orders"`
}

// RecalculateResult reports a tier recalculation run
type RecalculateResult struct {
	Examined int64 `json:"examined"`
	Changed  int64 `json:"changed"`
}

// ToCustomerResponse converts a domain customer to the response DTO
func ToCustomerResponse(c *partner.Customer, tierName string) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		Source:     c.Source,
		Notes:      c.Notes,
		Tier:       c.Tier,
		TierName:   tierName,
		TotalSpent: c.TotalSpent,
		OrderCount: c.OrderCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToTierSettingsResponse converts the domain ladder to the response DTO
func ToTierSettingsResponse(s *partner.TierSettings) TierSettingsResponse {
	thresholds := make([]TierThresholdResponse, len(s.Thresholds))
	for i, t := range s.Thresholds {
		thresholds[i] = TierThresholdResponse{
			Code:      t.Code,
			Name:      t.Name,
			MinSpend:  t.MinSpend,
			MinOrders: t.MinOrders,
		}
	}
	return TierSettingsResponse{
		Thresholds: thresholds,
		UpdatedAt:  s.UpdatedAt,
	}
}
