package aibackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	var gotPath string
	var gotBody CreateProjectRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"noOfPages": 7,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.CreateProject(context.Background(), CreateProjectRequest{
		Type:           "url",
		CollectionName: "owner@example.comdocs",
		URLs:           []string{"https://example.com"},
		Model:          "gpt-4",
		NoOfPages:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/createAiPorject", gotPath)
	assert.Equal(t, "owner@example.comdocs", gotBody.CollectionName)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.True(t, result.Success)
	assert.Equal(t, 7, result.NoOfPages)
}

func TestCreateProjectDecodesLimitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPreconditionFailed)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Page limit exceeded for current subscription",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.CreateProject(context.Background(), CreateProjectRequest{Type: "file"})
	require.NoError(t, err, "a 412 body is a result, not a transport error")

	assert.Equal(t, http.StatusPreconditionFailed, result.StatusCode)
	assert.False(t, result.Success)
	assert.Equal(t, "Page limit exceeded for current subscription", result.Message)
}

func TestCollectionManagement(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("edit", func(t *testing.T) {
		result, err := client.EditCollection(context.Background(), "old", "new")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/collection/edit", gotPath)
		assert.Equal(t, "old", gotBody["oldCollectionName"])
		assert.Equal(t, "new", gotBody["newCollectionName"])
		assert.True(t, result.Success)
	})

	t.Run("delete", func(t *testing.T) {
		result, err := client.DeleteCollection(context.Background(), "owner@example.comdocs")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/collection/delete", gotPath)
		assert.Equal(t, "owner@example.comdocs", gotBody["collectionName"])
		assert.True(t, result.Success)
	})
}

func TestAnswerQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/answerQuery", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"answer":  "42",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.AnswerQuery(context.Background(), AnswerQueryRequest{
		CollectionName: "owner@example.comdocs",
		Query:          "meaning of life",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "42", result.Answer)
}
