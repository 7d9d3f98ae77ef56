package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	shippingapp "github.com/qlbh/backend/internal/application/shipping"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/interfaces/http/dto"
)

// maxWebhookBody caps webhook payload size; carrier payloads are tiny.
const maxWebhookBody = 1 << 20

// WebhookHandler receives carrier status callbacks. These endpoints sit
// outside JWT auth: the carrier authenticates with an HMAC signature over
// the raw request body instead.
type WebhookHandler struct {
	BaseHandler
	webhookService *shippingapp.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *shippingapp.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// ViettelPost handles POST /webhooks/viettelpost.
//
// The carrier retries on any non-2xx, so business-level refusals such as an
// unknown tracking code still acknowledge with 200 and success=false. Only
// a bad signature gets 401: a retry with the same bad signature is useless
// and the failure must surface on the carrier side.
func (h *WebhookHandler) ViettelPost(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	var payload shippingapp.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed webhook payload")
		return
	}
	if payload.OrderNumber == "" {
		h.BadRequest(c, "ORDER_NUMBER is required")
		return
	}

	signature := c.GetHeader("x-vtp-signature")
	result, err := h.webhookService.Handle(c.Request.Context(), payload, rawBody, signature)
	if err != nil {
		if errors.Is(err, shared.ErrSignatureMismatch) {
			h.Error(c, http.StatusUnauthorized, dto.ErrCodeSignatureMismatch, "Webhook signature verification failed")
			return
		}
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health handles GET /webhooks/viettelpost, used by the carrier's endpoint
// verification check.
func (h *WebhookHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
