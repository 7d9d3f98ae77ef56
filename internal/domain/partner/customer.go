package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shared"
)

// Customer represents a buyer of a shop together with the lifetime
// figures the tier engine reads. It is the aggregate root for
// customer-related operations.
type Customer struct {
	shared.ShopAggregateRoot
	Name       string          `gorm:"type:varchar(200);not null;index"`
	Phone      string          `gorm:"type:varchar(20);index:idx_customer_shop_phone"`
	Email      string          `gorm:"type:varchar(200)"`
	Address    string          `gorm:"type:text"`
	Source     string          `gorm:"type:varchar(20);not null;default:'instagram'"`
	Notes      string          `gorm:"type:text"`
	Tier       string          `gorm:"type:varchar(20);not null;default:'thuong'"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OrderCount int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(shopID uuid.UUID, name, phone string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	customer := &Customer{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Name:              strings.TrimSpace(name),
		Phone:             strings.TrimSpace(phone),
		Source:            "instagram",
		Tier:              TierCodeRegular,
		TotalSpent:        decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact information. Empty strings for
// phone and email clear the fields.
func (c *Customer) Update(name, phone, email, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}

	c.Name = strings.TrimSpace(name)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Address = address
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetSource records where the customer came from
func (c *Customer) SetSource(source string) error {
	switch source {
	case "instagram", "facebook", "other":
		c.Source = source
		c.Touch()
		c.IncrementVersion()
		return nil
	default:
		return shared.NewDomainError("INVALID_SOURCE", "Customer source must be instagram, facebook or other")
	}
}

// RecordNewOrder bumps the lifetime order counter. Called when an order
// is placed, not when it completes.
func (c *Customer) RecordNewOrder() {
	c.OrderCount++
	c.Touch()
	c.IncrementVersion()
}

// RecordCompletedOrder adds a completed order's value to the lifetime
// spend. The order counter was already bumped at creation.
func (c *Customer) RecordCompletedOrder(total decimal.Decimal) {
	c.TotalSpent = c.TotalSpent.Add(total)
	c.Touch()
	c.IncrementVersion()
}

// ApplyTier moves the customer to the given tier, in either direction.
// Raising a shop's thresholds can demote customers on the next sweep.
func (c *Customer) ApplyTier(code string) bool {
	if code == c.Tier || TierRank(code) < 0 {
		return false
	}
	old := c.Tier
	c.Tier = code
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerTierChangedEvent(c, old, code))

	return true
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var phonePattern = regexp.MustCompile(`^[0-9+\-\s().]{6,20}$`)

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone number format is invalid")
	}
	return nil
}
