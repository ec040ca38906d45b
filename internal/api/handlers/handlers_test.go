package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/api"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/billing"
	"github.com/aiquanty/Quanty-Backend/internal/storage"
	"github.com/aiquanty/Quanty-Backend/internal/testutil"
	"github.com/aiquanty/Quanty-Backend/pkg/config"
)

// memStore is an in-memory ObjectStore for handler tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type testEnv struct {
	router *api.Router
	db     *gorm.DB
	jwt    *auth.JWTService
	jobs   *testutil.NoopEnqueuer
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"noOfPages": 1,
			"answer":    "stub answer",
		})
	}))
	t.Cleanup(aiServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := testutil.CreateTestJWTService()
	jobs := &testutil.NoopEnqueuer{}

	store, err := storage.New(context.Background(), &config.AWSConfig{
		Region:           "eu-central-1",
		AccessKeyID:      "test",
		SecretAccessKey:  "test",
		BucketName:       "test-bucket",
		CloudFrontDomain: "https://cdn.test",
	})
	require.NoError(t, err)

	accountsService := accounts.NewService(db, aibackend.NewClient(aiServer.URL), &memStore{objects: map[string][]byte{}}, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:              db,
		Logger:          logger,
		JWTService:      jwtService,
		AuthService:     auth.NewService(db, jwtService),
		ResetService:    auth.NewPasswordResetService(db, jwtService, jobs),
		AccountsService: accountsService,
		TeamService:     accounts.NewTeamService(accountsService, jwtService, jobs, logger),
		BillingService:  billing.NewService(db, accountsService, config.StripeConfig{}, logger),
		Storage:         store,
		Jobs:            jobs,
	})

	return &testEnv{router: router, db: db, jwt: jwtService, jobs: jobs}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
