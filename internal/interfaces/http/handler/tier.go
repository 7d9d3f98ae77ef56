package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/qlbh/backend/internal/application/partner"
)

// TierHandler handles customer tier configuration endpoints
type TierHandler struct {
	BaseHandler
	tierService *partnerapp.TierService
}

// NewTierHandler creates a new TierHandler
func NewTierHandler(tierService *partnerapp.TierService) *TierHandler {
	return &TierHandler{tierService: tierService}
}

// GetSettings handles GET /tiers/settings
func (h *TierHandler) GetSettings(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	resp, err := h.tierService.GetSettings(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings handles PUT /tiers/settings
func (h *TierHandler) UpdateSettings(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	var req partnerapp.UpdateTierSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tierService.UpdateSettings(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Recalculate handles POST /customers/:id/recalculate-tier
func (h *TierHandler) Recalculate(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	resp, err := h.tierService.Recalculate(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecalculateAll handles POST /tiers/recalculate
func (h *TierHandler) RecalculateAll(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid shop context")
		return
	}

	resp, err := h.tierService.RecalculateAll(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
