package handlers

import (
	"io"
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
	"github.com/aiquanty/Quanty-Backend/internal/billing"
)

// maxWebhookBytes bounds the stripe payload read.
const maxWebhookBytes = 1 << 16

type BillingHandler struct {
	billing *billing.Service
}

func NewBillingHandler(billingSvc *billing.Service) *BillingHandler {
	return &BillingHandler{billing: billingSvc}
}

func (h *BillingHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	url, err := h.billing.CreateSubscription(r.Context(), email, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(dto.CheckoutResponse{URL: url}))
}

func (h *BillingHandler) ChangeSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.billing.ChangeSubscription(r.Context(), email, req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Subscription change requested"))
}

func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	if err := h.billing.CancelSubscription(r.Context(), email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Subscription cancelled"))
}

func (h *BillingHandler) CreateSubscriptionForAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminSubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	if err := h.billing.CreateSubscriptionForAdmin(r.Context(), req.Email, req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Subscription granted"))
}

// Webhook receives stripe events. The raw body is needed for signature
// verification, so it bypasses the JSON decode helper.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}

	if err := h.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Event processed"))
}

func (h *BillingHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context()).String()
	products, err := h.billing.ListProducts(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(products))
}

func (h *BillingHandler) AllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.billing.AllProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(products))
}

func (h *BillingHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	product, err := h.billing.CreateProduct(r.Context(), billing.CreateProductInput{
		Name:               req.Name,
		Price:              req.Price,
		AllowedTeamMembers: req.AllowedTeamMembers,
		AllowedCredits:     req.AllowedCredits,
		AllowedAssistants:  req.AllowedAssistants,
		Custom:             req.Custom,
		AvailableToUsers:   req.AvailableToUsers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.OK(product))
}
