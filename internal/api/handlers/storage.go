package handlers

import (
	"net/http"
	"strconv"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/storage"
)

type StorageHandler struct {
	accounts *accounts.Service
	store    *storage.Service
}

func NewStorageHandler(accountsSvc *accounts.Service, store *storage.Service) *StorageHandler {
	return &StorageHandler{accounts: accountsSvc, store: store}
}

// File streams a project's stored document, read access required.
func (h *StorageHandler) File(w http.ResponseWriter, r *http.Request) {
	collectionName := r.URL.Query().Get("collectionName")
	if collectionName == "" {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Collection name is required"))
		return
	}
	projectID, err := strconv.Atoi(r.URL.Query().Get("projectId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid project id"))
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	key, err := h.accounts.ProjectFileKey(r.Context(), email, collectionName, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Stream(r.Context(), w, key); err != nil {
		writeError(w, apperr.Internal("Something went wrong", err))
	}
}

// ProfileImage redirects to the CDN location of the caller's profile image.
func (h *StorageHandler) ProfileImage(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	url, err := h.accounts.ProfileImageURL(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
