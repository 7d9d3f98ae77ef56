package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qlbh/backend/internal/domain/catalog"
	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*order.Order, error) {
	args := m.Called(ctx, trackingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatusForShop(ctx context.Context, shopID uuid.UUID) ([]order.StatusCount, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusCount), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SyncCustomerSnapshot(ctx context.Context, shopID, customerID uuid.UUID, name, phone, email string) (int64, error) {
	args := m.Called(ctx, shopID, customerID, name, phone, email)
	return args.Get(0).(int64), args.Error(1)
}

// MockProviderConfigRepository is a mock implementation of shipping.ProviderConfigRepository
type MockProviderConfigRepository struct {
	mock.Mock
}

func (m *MockProviderConfigRepository) FindForShop(ctx context.Context, shopID uuid.UUID, provider shipping.Provider) (*shipping.ProviderConfig, error) {
	args := m.Called(ctx, shopID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigRepository) Save(ctx context.Context, c *shipping.ProviderConfig) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockProviderConfigRepository) Delete(ctx context.Context, shopID uuid.UUID, provider shipping.Provider) error {
	args := m.Called(ctx, shopID, provider)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForShop(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, shopID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}

func (m *MockProductRepository) ReserveStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, shopID, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) ReleaseStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, shopID, productID, quantity)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhoneForShop(ctx context.Context, shopID uuid.UUID, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, shopID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}

// MockTierSettingsRepository is a mock implementation of partner.TierSettingsRepository
type MockTierSettingsRepository struct {
	mock.Mock
}

func (m *MockTierSettingsRepository) FindForShop(ctx context.Context, shopID uuid.UUID) (*partner.TierSettings, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.TierSettings), args.Error(1)
}

func (m *MockTierSettingsRepository) Save(ctx context.Context, s *partner.TierSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockOrderEffects is a mock implementation of OrderEffects
type MockOrderEffects struct {
	mock.Mock
}

func (m *MockOrderEffects) ApplyCarrierEffects(ctx context.Context, o *order.Order, from order.Status) {
	m.Called(ctx, o, from)
}

// MockGateway is a mock implementation of shipping.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) VerifyToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockGateway) CreateShipment(ctx context.Context, token string, req shipping.ShipmentRequest) (*shipping.Shipment, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipment), args.Error(1)
}

func (m *MockGateway) GetTracking(ctx context.Context, token, trackingCode, receiverPhone string) (*shipping.TrackingInfo, error) {
	args := m.Called(ctx, token, trackingCode, receiverPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.TrackingInfo), args.Error(1)
}

func (m *MockGateway) CancelShipment(ctx context.Context, token, trackingCode string) error {
	args := m.Called(ctx, token, trackingCode)
	return args.Error(0)
}

func (m *MockGateway) QuoteFee(ctx context.Context, token string, req shipping.FeeRequest) (*shipping.FeeQuote, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.FeeQuote), args.Error(1)
}

func (m *MockGateway) ListProvinces(ctx context.Context, token string) ([]shipping.Location, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Location), args.Error(1)
}

func (m *MockGateway) ListDistricts(ctx context.Context, token string, provinceID int) ([]shipping.Location, error) {
	args := m.Called(ctx, token, provinceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Location), args.Error(1)
}

func (m *MockGateway) ListWards(ctx context.Context, token string, districtID int) ([]shipping.Location, error) {
	args := m.Called(ctx, token, districtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Location), args.Error(1)
}

// fakeCipher is a reversible stand-in for the AES cipher
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if len(ciphertext) > 4 && ciphertext[:4] == "enc:" {
		return ciphertext[4:], nil
	}
	return ciphertext, nil
}
