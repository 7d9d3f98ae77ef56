package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

const (
	DefaultBaseURL = "https://partner.viettelpost.vn/v2"

	productTypeGoods = "HH"  // hàng hóa
	serviceStandard  = "VCN" // chuyển phát nhanh

	paymentPrepaid = 1
	paymentCOD     = 2

	cancelUpdateType = 4

	vtpTimeLayout = "02/01/2006 15:04:05"
)

// ViettelPostClient implements the shipping gateway against the Viettel
// Post partner API. The per-shop token travels in the Token header.
type ViettelPostClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewViettelPostClient creates a new client. An empty baseURL selects the
// production partner endpoint.
func NewViettelPostClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ViettelPostClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ViettelPostClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("viettelpost"),
	}
}

// envelope is the partner API response wrapper
type envelope struct {
	Status  int             `json:"status"`
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// VerifyToken checks the token by listing provinces, the cheapest
// authenticated call the API offers.
func (c *ViettelPostClient) VerifyToken(ctx context.Context, token string) error {
	_, err := c.ListProvinces(ctx, token)
	return err
}

type createOrderRequest struct {
	OrderNumber        string `json:"ORDER_NUMBER"`
	SenderFullname     string `json:"SENDER_FULLNAME"`
	SenderPhone        string `json:"SENDER_PHONE"`
	SenderAddress      string `json:"SENDER_ADDRESS"`
	SenderProvince     int    `json:"SENDER_PROVINCE"`
	SenderDistrict     int    `json:"SENDER_DISTRICT"`
	SenderWard         int    `json:"SENDER_WARD"`
	ReceiverFullname   string `json:"RECEIVER_FULLNAME"`
	ReceiverPhone      string `json:"RECEIVER_PHONE"`
	ReceiverEmail      string `json:"RECEIVER_EMAIL,omitempty"`
	ReceiverAddress    string `json:"RECEIVER_ADDRESS"`
	ReceiverProvince   int    `json:"RECEIVER_PROVINCE"`
	ReceiverDistrict   int    `json:"RECEIVER_DISTRICT"`
	ReceiverWard       int    `json:"RECEIVER_WARD"`
	ProductName        string `json:"PRODUCT_NAME"`
	ProductQuantity    int64  `json:"PRODUCT_QUANTITY"`
	ProductPrice       int64  `json:"PRODUCT_PRICE"`
	ProductWeight      int    `json:"PRODUCT_WEIGHT"`
	ProductLength      int    `json:"PRODUCT_LENGTH"`
	ProductWidth       int    `json:"PRODUCT_WIDTH"`
	ProductHeight      int    `json:"PRODUCT_HEIGHT"`
	ProductType        string `json:"PRODUCT_TYPE"`
	OrderPayment       int    `json:"ORDER_PAYMENT"`
	OrderService       string `json:"ORDER_SERVICE"`
	OrderNote          string `json:"ORDER_NOTE,omitempty"`
	MoneyCollection    int64  `json:"MONEY_COLLECTION"`
	MoneyTotalFee      int64  `json:"MONEY_TOTALFEE"`
	MoneyFeeCOD        int64  `json:"MONEY_FEECOD"`
	MoneyTotal         int64  `json:"MONEY_TOTAL"`
}

type createOrderData struct {
	OrderNumber    string  `json:"ORDER_NUMBER"`
	MoneyTotal     int64   `json:"MONEY_TOTAL"`
	MoneyTotalFee  int64   `json:"MONEY_TOTAL_FEE"`
	ExchangeWeight int     `json:"EXCHANGE_WEIGHT"`
	KpiHT          float64 `json:"KPI_HT"`
}

// CreateShipment registers the order with Viettel Post
func (c *ViettelPostClient) CreateShipment(ctx context.Context, token string, req shipping.ShipmentRequest) (*shipping.Shipment, error) {
	payment := paymentPrepaid
	var collection int64
	if req.CollectOnDelivery {
		payment = paymentCOD
		collection = req.OrderTotal.IntPart()
	}

	body := createOrderRequest{
		OrderNumber:      req.OrderCode,
		SenderFullname:   req.SenderName,
		SenderPhone:      req.SenderPhone,
		SenderAddress:    req.SenderAddress,
		SenderProvince:   req.SenderProvince,
		SenderDistrict:   req.SenderDistrict,
		SenderWard:       req.SenderWard,
		ReceiverFullname: req.ReceiverName,
		ReceiverPhone:    req.ReceiverPhone,
		ReceiverEmail:    req.ReceiverEmail,
		ReceiverAddress:  req.Address,
		ReceiverProvince: req.ProvinceID,
		ReceiverDistrict: req.DistrictID,
		ReceiverWard:     req.WardID,
		ProductName:      strings.Join(req.ProductNames, ", "),
		ProductQuantity:  req.TotalQuantity,
		ProductPrice:     req.OrderTotal.IntPart(),
		ProductWeight:    req.WeightGrams,
		ProductLength:    req.LengthCM,
		ProductWidth:     req.WidthCM,
		ProductHeight:    req.HeightCM,
		ProductType:      productTypeGoods,
		OrderPayment:     payment,
		OrderService:     serviceStandard,
		OrderNote:        req.Note,
		MoneyCollection:  collection,
		MoneyTotal:       req.OrderTotal.IntPart(),
	}

	var data createOrderData
	if err := c.post(ctx, token, "/order/createOrder", body, &data); err != nil {
		return nil, err
	}
	if data.OrderNumber == "" {
		return nil, shared.NewDispatchRejectedError("carrier returned no tracking code")
	}

	return &shipping.Shipment{
		TrackingCode:   data.OrderNumber,
		CarrierOrderID: data.OrderNumber,
		Fee:            decimal.NewFromInt(data.MoneyTotalFee),
	}, nil
}

type trackingData struct {
	OrderNumber string `json:"ORDER_NUMBER"`
	OrderStatus int    `json:"ORDER_STATUS"`
	StatusName  string `json:"ORDER_STATUSNAME"`
	ListStatus  []struct {
		Status     int    `json:"ORDER_STATUS"`
		StatusName string `json:"ORDER_STATUSNAME"`
		Note       string `json:"NOTE"`
		Date       string `json:"ORDER_STATUSDATE"`
	} `json:"LIST_ORDER_STATUS"`
}

// GetTracking fetches the carrier's status and history for a shipment
func (c *ViettelPostClient) GetTracking(ctx context.Context, token, trackingCode, receiverPhone string) (*shipping.TrackingInfo, error) {
	body := map[string]string{
		"ORDER_NUMBER": trackingCode,
		"PHONE":        receiverPhone,
	}

	var data trackingData
	if err := c.post(ctx, token, "/order/getOrderByCodeAndPhone", body, &data); err != nil {
		return nil, err
	}

	events := make([]shipping.TrackingEvent, 0, len(data.ListStatus))
	for _, s := range data.ListStatus {
		at, err := time.Parse(vtpTimeLayout, s.Date)
		if err != nil {
			at = time.Now()
		}
		events = append(events, shipping.TrackingEvent{
			StatusCode: s.Status,
			StatusName: s.StatusName,
			Note:       s.Note,
			Time:       at,
		})
	}

	return &shipping.TrackingInfo{
		TrackingCode: data.OrderNumber,
		StatusCode:   data.OrderStatus,
		StatusName:   data.StatusName,
		Events:       events,
	}, nil
}

// CancelShipment cancels a shipment via the order update endpoint
func (c *ViettelPostClient) CancelShipment(ctx context.Context, token, trackingCode string) error {
	body := map[string]interface{}{
		"TYPE":         cancelUpdateType,
		"ORDER_NUMBER": trackingCode,
		"NOTE":         "Hủy đơn hàng",
	}
	return c.post(ctx, token, "/order/UpdateOrder", body, nil)
}

type priceData struct {
	MoneyTotal    int64   `json:"MONEY_TOTAL"`
	MoneyTotalFee int64   `json:"MONEY_TOTAL_FEE"`
	KpiHT         float64 `json:"KPI_HT"`
}

// QuoteFee asks the carrier to price a shipment
func (c *ViettelPostClient) QuoteFee(ctx context.Context, token string, req shipping.FeeRequest) (*shipping.FeeQuote, error) {
	var collection int64
	if req.CollectOnDelivery {
		collection = req.OrderValue.IntPart()
	}
	body := map[string]interface{}{
		"SENDER_PROVINCE":   req.SenderProvince,
		"SENDER_DISTRICT":   req.SenderDistrict,
		"RECEIVER_PROVINCE": req.ReceiverProvince,
		"RECEIVER_DISTRICT": req.ReceiverDistrict,
		"PRODUCT_WEIGHT":    req.WeightGrams,
		"PRODUCT_PRICE":     req.OrderValue.IntPart(),
		"MONEY_COLLECTION":  collection,
		"ORDER_SERVICE_ADD": "",
		"ORDER_SERVICE":     serviceStandard,
		"PRODUCT_TYPE":      productTypeGoods,
		"NATIONAL_TYPE":     1,
	}

	var data priceData
	if err := c.post(ctx, token, "/order/getPrice", body, &data); err != nil {
		return nil, err
	}

	days := 0
	if data.KpiHT > 0 {
		days = int(data.KpiHT/24) + 1
	}
	return &shipping.FeeQuote{
		Fee:           decimal.NewFromInt(data.MoneyTotal),
		EstimatedDays: days,
	}, nil
}

type locationEntry struct {
	ProvinceID   int    `json:"PROVINCE_ID"`
	ProvinceName string `json:"PROVINCE_NAME"`
	DistrictID   int    `json:"DISTRICT_ID"`
	DistrictName string `json:"DISTRICT_NAME"`
	WardsID      int    `json:"WARDS_ID"`
	WardsName    string `json:"WARDS_NAME"`
}

// ListProvinces returns the carrier's province catalogue
func (c *ViettelPostClient) ListProvinces(ctx context.Context, token string) ([]shipping.Location, error) {
	var entries []locationEntry
	if err := c.get(ctx, token, "/categories/listProvince", &entries); err != nil {
		return nil, err
	}
	out := make([]shipping.Location, len(entries))
	for i, e := range entries {
		out[i] = shipping.Location{ID: e.ProvinceID, Name: e.ProvinceName}
	}
	return out, nil
}

// ListDistricts returns the districts of a province
func (c *ViettelPostClient) ListDistricts(ctx context.Context, token string, provinceID int) ([]shipping.Location, error) {
	var entries []locationEntry
	path := fmt.Sprintf("/categories/listDistrict?provinceId=%d", provinceID)
	if err := c.get(ctx, token, path, &entries); err != nil {
		return nil, err
	}
	out := make([]shipping.Location, len(entries))
	for i, e := range entries {
		out[i] = shipping.Location{ID: e.DistrictID, Name: e.DistrictName}
	}
	return out, nil
}

// ListWards returns the wards of a district
func (c *ViettelPostClient) ListWards(ctx context.Context, token string, districtID int) ([]shipping.Location, error) {
	var entries []locationEntry
	path := fmt.Sprintf("/categories/listWards?districtId=%d", districtID)
	if err := c.get(ctx, token, path, &entries); err != nil {
		return nil, err
	}
	out := make([]shipping.Location, len(entries))
	for i, e := range entries {
		out[i] = shipping.Location{ID: e.WardsID, Name: e.WardsName}
	}
	return out, nil
}

func (c *ViettelPostClient) post(ctx context.Context, token, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return c.do(req, token, path, out)
}

func (c *ViettelPostClient) get(ctx context.Context, token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, token, path, out)
}

func (c *ViettelPostClient) do(req *http.Request, token, path string, out interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("carrier request failed", zap.String("path", path), zap.Error(err))
		return shared.ErrCarrierUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return shared.ErrCarrierUnavailable
	}
	if resp.StatusCode >= 500 {
		c.logger.Warn("carrier server error",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return shared.ErrCarrierUnavailable
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return shared.ErrCarrierUnavailable
	}
	if env.Error || (env.Status != 0 && env.Status != 200) || resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("carrier returned status %d", resp.StatusCode)
		}
		c.logger.Warn("carrier rejected request",
			zap.String("path", path), zap.Int("status", env.Status), zap.String("message", msg))
		return shared.NewDispatchRejectedError(msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode carrier response: %w", err)
		}
	}
	return nil
}
