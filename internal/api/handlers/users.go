package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
)

// maxUploadBytes caps multipart parsing; larger documents go through
// pre-signed uploads, not this API.
const maxUploadBytes = 50 << 20

type UserHandler struct {
	accounts *accounts.Service
}

func NewUserHandler(accountsSvc *accounts.Service) *UserHandler {
	return &UserHandler{accounts: accountsSvc}
}

func (h *UserHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCollectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.accounts.CreateCollection(r.Context(), email, req.CollectionName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.OKMessage("Collection created"))
}

func (h *UserHandler) EditCollectionName(w http.ResponseWriter, r *http.Request) {
	var req dto.EditCollectionNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.accounts.RenameCollection(r.Context(), email, req.OldCollectionName, req.NewCollectionName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Collection renamed"))
}

func (h *UserHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteCollectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.accounts.DeleteCollection(r.Context(), email, req.CollectionName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Collection deleted"))
}

func (h *UserHandler) GetCollectionsForUser(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	names, err := h.accounts.CollectionNames(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(names))
}

// CreateAiProjectForFile ingests uploaded documents. The project fields
// arrive as multipart form values alongside the files.
func (h *UserHandler) CreateAiProjectForFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid multipart form"))
		return
	}

	input := projectInputFromForm(r)
	if input.Name == "" || input.CollectionName == "" || input.Model == "" {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Missing required fields"))
		return
	}

	var files []accounts.FileUpload
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid file upload"))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid file upload"))
			return
		}
		files = append(files, accounts.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.accounts.CreateProjectForFiles(r.Context(), email, input, files); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.OKMessage("Project created"))
}

func (h *UserHandler) CreateAiProjectForURL(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}
	if len(req.URLs) == 0 {
		writeJSON(w, http.StatusBadRequest, dto.Fail("At least one url is required"))
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	err := h.accounts.CreateProjectForURLs(r.Context(), email, accounts.ProjectInput{
		Name:           req.Name,
		CollectionName: req.CollectionName,
		Description:    req.Description,
		Model:          req.Model,
		Language:       req.Language,
		DataAnomiyzer:  req.DataAnomiyzer,
		SourceChatGpt:  req.SourceChatGpt,
		BestGuess:      req.BestGuess,
	}, req.URLs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.OKMessage("Project created"))
}

func (h *UserHandler) AskQueryFromAi(w http.ResponseWriter, r *http.Request) {
	var req dto.AskQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	answer, err := h.accounts.AskQuery(r.Context(), email, req.CollectionName, req.ProjectID, req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(dto.AskQueryResponse{Answer: answer}))
}

func (h *UserHandler) GetUserProjects(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	projects, err := h.accounts.UserProjects(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(projects))
}

func (h *UserHandler) GetUserAccess(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	collections, err := h.accounts.CollectionsWithAccess(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(collections))
}

func (h *UserHandler) SetUserAccessToCollections(w http.ResponseWriter, r *http.Request) {
	var req dto.SetUserAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	email := middleware.GetAccountEmail(r.Context())
	err := h.accounts.SetUserAccess(r.Context(), email, accounts.SetAccessInput{
		CollectionName: req.CollectionName,
		UserID:         req.UserID,
		ReadAccess:     req.ReadAccess,
		WriteAccess:    req.WriteAccess,
		Action:         req.Action,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Access updated"))
}

func (h *UserHandler) GetLoggedInUser(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	user, err := h.accounts.GetLoggedInUser(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(user))
}

// SetUserProfileSettings updates the profile, optionally rotating the
// password and replacing the profile image.
func (h *UserHandler) SetUserProfileSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid multipart form"))
		return
	}

	input := accounts.ProfileSettingsInput{
		Name:            r.FormValue("name"),
		BusinessName:    r.FormValue("businessName"),
		Phone:           r.FormValue("phone"),
		CurrentPassword: r.FormValue("currentPassword"),
		NewPassword:     r.FormValue("newPassword"),
	}

	var image *accounts.FileUpload
	if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
		f, err := headers[0].Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid file upload"))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Fail("Invalid file upload"))
			return
		}
		image = &accounts.FileUpload{
			Filename:    headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Data:        data,
		}
	}

	email := middleware.GetAccountEmail(r.Context())
	if err := h.accounts.SetProfileSettings(r.Context(), email, input, image); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKMessage("Profile updated"))
}

func (h *UserHandler) GetTeamMemberDetails(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAccountEmail(r.Context())
	members, err := h.accounts.TeamMemberDetails(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK(members))
}

func projectInputFromForm(r *http.Request) accounts.ProjectInput {
	dataAnomiyzer, _ := strconv.ParseBool(r.FormValue("dataAnomiyzer"))
	sourceChatGpt, _ := strconv.ParseBool(r.FormValue("sourceChatGpt"))
	bestGuess, _ := strconv.ParseFloat(r.FormValue("bestGuess"), 64)

	return accounts.ProjectInput{
		Name:           r.FormValue("name"),
		CollectionName: r.FormValue("collectionName"),
		Description:    r.FormValue("description"),
		Model:          r.FormValue("model"),
		Language:       r.FormValue("language"),
		DataAnomiyzer:  dataAnomiyzer,
		SourceChatGpt:  sourceChatGpt,
		BestGuess:      bestGuess,
	}
}
