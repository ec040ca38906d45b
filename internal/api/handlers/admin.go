package handlers

import (
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
)

type AdminHandler struct {
	accounts *accounts.Service
}

func NewAdminHandler(accountsSvc *accounts.Service) *AdminHandler {
	return &AdminHandler{accounts: accountsSvc}
}

func (h *AdminHandler) Owners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.accounts.AllOwners(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(owners))
}

func (h *AdminHandler) NonSubscribedUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.NonSubscribedUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(users))
}

func (h *AdminHandler) OwnerDetails(w http.ResponseWriter, r *http.Request) {
	var req dto.OwnerDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	details, err := h.accounts.OwnerDetailsByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(details))
}
