package handlers

import (
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/tasks"
)

// MailHandler accepts contact-form queries and hands them to the mail worker.
type MailHandler struct {
	jobs accounts.Enqueuer
}

func NewMailHandler(jobs accounts.Enqueuer) *MailHandler {
	return &MailHandler{jobs: jobs}
}

func (h *MailHandler) SendUserQuery(w http.ResponseWriter, r *http.Request) {
	var req dto.SendUserQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	task, err := tasks.NewUserQueryMailTask(tasks.UserQueryMailPayload{
		FromEmail: req.Email,
		Name:      req.Name,
		Message:   req.Query,
	})
	if err != nil {
		writeError(w, apperr.Internal("Something went wrong", err))
		return
	}
	if _, err := h.jobs.EnqueueContext(r.Context(), task); err != nil {
		writeError(w, apperr.Internal("Something went wrong", err))
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Query sent"))
}
