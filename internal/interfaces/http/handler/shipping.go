package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/qlbh/backend/internal/application/order"
	shippingapp "github.com/qlbh/backend/internal/application/shipping"
)

// ShippingHandler handles carrier configuration and shipment endpoints
type ShippingHandler struct {
	BaseHandler
	shippingService *shippingapp.ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService *shippingapp.ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// SaveSettings handles PUT /shipping/settings
func (h *ShippingHandler) SaveSettings(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	var req shippingapp.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.shippingService.SaveSettings(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSettings handles GET /shipping/settings
func (h *ShippingHandler) GetSettings(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	resp, err := h.shippingService.GetSettings(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSettings handles DELETE /shipping/settings
func (h *ShippingHandler) DeleteSettings(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	if err := h.shippingService.DeleteSettings(c.Request.Context(), shopID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dispatch handles POST /orders/:id/dispatch
func (h *ShippingHandler) Dispatch(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	// Parcel dimensions are optional; defaults cover the common case.
	var req shippingapp.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.shippingService.Dispatch(c.Request.Context(), shopID, userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Track handles GET /orders/:id/tracking
func (h *ShippingHandler) Track(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.shippingService.Track(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelShipment handles POST /orders/:id/cancel-shipment
func (h *ShippingHandler) CancelShipment(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.shippingService.CancelShipment(c.Request.Context(), shopID, userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderapp.ToOrderResponse(o))
}

// QuoteFee handles POST /shipping/quote
func (h *ShippingHandler) QuoteFee(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	var req shippingapp.FeeQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.shippingService.QuoteFee(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListProvinces handles GET /shipping/locations/provinces
func (h *ShippingHandler) ListProvinces(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	locations, err := h.shippingService.ListProvinces(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// ListDistricts handles GET /shipping/locations/districts?province_id=
func (h *ShippingHandler) ListDistricts(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	provinceID, err := strconv.Atoi(c.Query("province_id"))
	if err != nil {
		h.BadRequest(c, "Invalid province_id")
		return
	}

	locations, err := h.shippingService.ListDistricts(c.Request.Context(), shopID, provinceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// ListWards handles GET /shipping/locations/wards?district_id=
func (h *ShippingHandler) ListWards(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	districtID, err := strconv.Atoi(c.Query("district_id"))
	if err != nil {
		h.BadRequest(c, "Invalid district_id")
		return
	}

	locations, err := h.shippingService.ListWards(c.Request.Context(), shopID, districtID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}
