package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/payment"
	"github.com/nikhilbhutani/storefront/internal/tenant"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type PaymentHandler struct {
	tenants  *tenant.Service
	payments *payment.Service
	webhooks *webhook.Service
}

func NewPaymentHandler(ts *tenant.Service, ps *payment.Service, ws *webhook.Service) *PaymentHandler {
	return &PaymentHandler{tenants: ts, payments: ps, webhooks: ws}
}

type processPaymentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, commerce.Validation("invalid order ID"))
		return
	}

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, commerce.Validation("invalid request body"))
		return
	}

	t, err := h.tenants.ResolveBySlug(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.payments.Process(r.Context(), t.ID, payment.ProcessRequest{
		OrderID:  orderID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		var de *commerce.Error
		if errors.As(err, &de) && de.Code == commerce.CodeProviderFailure && p != nil {
			h.webhooks.Dispatch(r.Context(), t.ID, webhook.EventPaymentFailed, map[string]interface{}{
				"payment_id": p.ID,
				"order_id":   orderID,
				"reason":     p.FailureReason,
			})
		}
		writeDomainError(w, err)
		return
	}

	h.webhooks.Dispatch(r.Context(), t.ID, webhook.EventPaymentCompleted, map[string]interface{}{
		"payment_id":     p.ID,
		"order_id":       orderID,
		"transaction_id": p.TransactionID,
		"amount":         p.Amount,
		"currency":       p.Currency,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"payment_id":     p.ID,
		"transaction_id": p.TransactionID,
		"status":         p.Status,
		"processed_at":   p.ProcessedAt,
	})
}
