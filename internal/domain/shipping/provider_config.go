package shipping

import (
	"time"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/shared"
)

// Provider identifies a shipping carrier
type Provider string

const (
	ProviderViettelPost Provider = "viettelpost"
)

// ProviderConfig holds a shop's credentials for one carrier. The API
// token is stored encrypted at rest and only decrypted on the way to
// the carrier client.
type ProviderConfig struct {
	shared.ShopAggregateRoot
	Provider       Provider `gorm:"type:varchar(30);not null;uniqueIndex:idx_provider_shop,priority:2"`
	EncryptedToken string   `gorm:"type:text;not null"`
	WebhookSecret  string   `gorm:"type:varchar(128)"`
	SenderName     string   `gorm:"type:varchar(200)"`
	SenderPhone    string   `gorm:"type:varchar(20)"`
	SenderAddress  string   `gorm:"type:text"`
	SenderProvince int      `gorm:"not null;default:0"`
	SenderDistrict int      `gorm:"not null;default:0"`
	SenderWard     int      `gorm:"not null;default:0"`
	Enabled        bool     `gorm:"not null;default:true"`
	VerifiedAt     *time.Time
}

// TableName returns the table name for GORM
func (ProviderConfig) TableName() string {
	return "shipping_provider_configs"
}

// NewProviderConfig creates a carrier configuration for a shop
func NewProviderConfig(shopID uuid.UUID, provider Provider, encryptedToken string) (*ProviderConfig, error) {
	if provider != ProviderViettelPost {
		return nil, shared.NewDomainError("UNSUPPORTED_PROVIDER", "Unsupported shipping provider")
	}
	if encryptedToken == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Carrier token cannot be empty")
	}

	return &ProviderConfig{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Provider:          provider,
		EncryptedToken:    encryptedToken,
		Enabled:           true,
	}, nil
}

// RotateToken replaces the stored token and resets verification
func (c *ProviderConfig) RotateToken(encryptedToken string) error {
	if encryptedToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Carrier token cannot be empty")
	}
	c.EncryptedToken = encryptedToken
	c.VerifiedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkVerified records a successful token check against the carrier
func (c *ProviderConfig) MarkVerified(at time.Time) {
	c.VerifiedAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetSender sets the pickup contact used on dispatch requests
func (c *ProviderConfig) SetSender(name, phone, address string, provinceID, districtID, wardID int) {
	c.SenderName = name
	c.SenderPhone = phone
	c.SenderAddress = address
	c.SenderProvince = provinceID
	c.SenderDistrict = districtID
	c.SenderWard = wardID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetWebhookSecret sets the shared secret for webhook signatures
func (c *ProviderConfig) SetWebhookSecret(secret string) {
	c.WebhookSecret = secret
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Disable turns the carrier off for the shop
func (c *ProviderConfig) Disable() {
	c.Enabled = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Enable turns the carrier back on
func (c *ProviderConfig) Enable() {
	c.Enabled = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
