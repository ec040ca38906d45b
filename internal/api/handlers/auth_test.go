package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiquanty/Quanty-Backend/internal/testutil"
)

func TestSignupSigninRoundTrip(t *testing.T) {
	env := setupEnv(t)

	signup := map[string]string{
		"email":    "round@example.com",
		"password": "password123",
		"name":     "Round Trip",
	}

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/signup", "", signup))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("duplicate signup rejected", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/signup", "", signup))
		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.False(t, body.Success)
		assert.Equal(t, "Email already exists", body.Message)
	})

	t.Run("signin returns a usable token", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
			"email":    "round@example.com",
			"password": "password123",
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Token string `json:"token"`
				Email string `json:"email"`
			} `json:"data"`
		}
		testutil.DecodeResponse(t, rec, &body)
		require.True(t, body.Success)
		require.NotEmpty(t, body.Data.Token)

		me := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/auth/me", body.Data.Token, nil))
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
			"email":    "round@example.com",
			"password": "wrong",
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestValidationFailures(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "missing@example.com",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Details map[string]string `json:"details"`
	}
	testutil.DecodeResponse(t, rec, &body)
	assert.False(t, body.Success)
	assert.Contains(t, body.Details, "password")
	assert.Contains(t, body.Details, "name")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getCollectionsForUser", "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getCollectionsForUser", "garbage-token", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	env := setupEnv(t)

	account := testutil.CreateTestAccount(t, env.db)
	token := testutil.GenerateTestToken(t, env.jwt, account)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/admin/owners", token, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
