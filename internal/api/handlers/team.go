package handlers

import (
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
)

type TeamHandler struct {
	team *accounts.TeamService
	core *accounts.Service
}

func NewTeamHandler(team *accounts.TeamService, core *accounts.Service) *TeamHandler {
	return &TeamHandler{team: team, core: core}
}

func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req dto.InviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.team.Invite(r.Context(), email, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Invitation sent"))
}

// Invitation introspects the invite token carried in the mailed link.
func (h *TeamHandler) Invitation(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Token is required"))
		return
	}

	details, err := h.team.Invitation(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(details))
}

func (h *TeamHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.team.Accept(r.Context(), email, req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Invitation accepted"))
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req dto.RemoveTeamMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.core.RemoveTeamMember(r.Context(), email, req.MemberID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Team member removed"))
}
