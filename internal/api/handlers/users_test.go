package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiquanty/Quanty-Backend/internal/testutil"
)

func TestCollectionLifecycleOverHTTP(t *testing.T) {
	env := setupEnv(t)

	owner := testutil.CreateTestOwner(t, env.db)
	token := testutil.GenerateTestToken(t, env.jwt, owner)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/createCollection", token, map[string]string{
		"collectionName": "Research",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("collision reported with message", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/createCollection", token, map[string]string{
			"collectionName": "research",
		}))
		require.Equal(t, http.StatusPreconditionFailed, rec.Code)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.Equal(t, "Collection name already exists", body.Message)
	})

	t.Run("listing returns the collection", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getCollectionsForUser", token, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool     `json:"success"`
			Data    []string `json:"data"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.Equal(t, []string{"Research"}, body.Data)
	})

	t.Run("url ingestion and query", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/createAiProjectForURL", token, map[string]interface{}{
			"name":           "crawl",
			"collectionName": "Research",
			"model":          "gpt-4",
			"urls":           []string{"https://example.com"},
		}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/askQueryFromAi", token, map[string]interface{}{
			"collectionName": "Research",
			"projectId":      0,
			"query":          "what is this about",
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Answer string `json:"answer"`
			} `json:"data"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.Equal(t, "stub answer", body.Data.Answer)
	})

	t.Run("projects listing is tagged with the collection", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getUserProjects", token, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool `json:"success"`
			Data    []struct {
				Name           string `json:"name"`
				CollectionName string `json:"collectionName"`
			} `json:"data"`
		}
		testutil.DecodeResponse(t, rec, &body)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "crawl", body.Data[0].Name)
		assert.Equal(t, "Research", body.Data[0].CollectionName)
	})

	t.Run("team member without grant cannot query", func(t *testing.T) {
		member := testutil.CreateTestTeamMember(t, env.db, owner)
		memberToken := testutil.GenerateTestToken(t, env.jwt, member)

		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/askQueryFromAi", memberToken, map[string]interface{}{
			"collectionName": "Research",
			"projectId":      0,
			"query":          "hi",
		}))
		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	})

	t.Run("delete removes the collection", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/user/deleteCollection", token, map[string]string{
			"collectionName": "Research",
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getCollectionsForUser", token, nil))
		var body struct {
			Data []string `json:"data"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.Empty(t, body.Data)
	})
}

func TestGetLoggedInUser(t *testing.T) {
	env := setupEnv(t)

	owner := testutil.CreateTestOwner(t, env.db)
	token := testutil.GenerateTestToken(t, env.jwt, owner)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/user/getLoggedInUser", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Email          string  `json:"email"`
			Role           string  `json:"role"`
			AllowedCredits float64 `json:"allowedCredits"`
		} `json:"data"`
	}
	testutil.DecodeResponse(t, rec, &body)
	assert.Equal(t, owner.Email, body.Data.Email)
	assert.Equal(t, "owner", body.Data.Role)
	assert.InDelta(t, 100, body.Data.AllowedCredits, 0.001)
}
