package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiquanty/Quanty-Backend/internal/tasks"
	"github.com/aiquanty/Quanty-Backend/internal/testutil"
)

func TestSendUserQuery(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/mail/sendUserQuery", "", map[string]string{
		"name":  "Visitor",
		"email": "visitor@example.com",
		"query": "How does pricing work?",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.jobs.Tasks, 1)
	task := env.jobs.Tasks[0]
	assert.Equal(t, tasks.TypeMailUserQuery, task.Type())

	var payload tasks.UserQueryMailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "visitor@example.com", payload.FromEmail)
	assert.Equal(t, "Visitor", payload.Name)
	assert.Equal(t, "How does pricing work?", payload.Message)

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := env.do(testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/mail/sendUserQuery", "", map[string]string{
			"name": "Visitor",
		}))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Success bool              `json:"success"`
			Details map[string]string `json:"details"`
		}
		testutil.DecodeResponse(t, rec, &body)
		assert.Contains(t, body.Details, "email")
		assert.Contains(t, body.Details, "query")
		assert.Len(t, env.jobs.Tasks, 1)
	})
}
