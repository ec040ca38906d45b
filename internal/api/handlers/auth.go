package handlers

import (
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/api/dto"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
}

func NewAuthHandler(authService auth.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	err := h.authService.Signup(r.Context(), auth.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OKMessage("Account created"))
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	result, err := h.authService.Signin(r.Context(), auth.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, dto.OK(dto.SigninResponse{
		Token:     result.Token,
		Email:     result.Email,
		ProductID: result.ProductID,
		Role:      result.Role,
	}))
}

func (h *AuthHandler) AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidationError(w, errors)
		return
	}

	result, err := h.authService.AdminSignin(r.Context(), auth.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, dto.OK(dto.SigninResponse{
		Token: result.Token,
		Email: result.Email,
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, dto.OKMessage("Logged out"))
}

// Me echoes the identity behind the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OK(map[string]interface{}{
		"id":      middleware.GetAccountID(r.Context()).String(),
		"email":   middleware.GetAccountEmail(r.Context()),
		"isAdmin": middleware.GetIsAdmin(r.Context()),
	}))
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 5,
	})
}
