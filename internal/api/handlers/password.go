package handlers

import (
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
)

type PasswordHandler struct {
	reset *auth.PasswordResetService
}

func NewPasswordHandler(reset *auth.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{reset: reset}
}

func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	if err := h.reset.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Reset mail sent"))
}

func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	if err := h.reset.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Password updated"))
}
