// Package testutil holds the shared test fixtures: an in-memory database,
// account builders, and authenticated request helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database with the schema applied.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Account{},
		&models.Admin{},
		&models.Product{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestAccount creates an account with role none.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	hash, salt, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &models.Account{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		PasswordSalt: salt,
		Name:         "Test User",
		Role:         models.RoleNone,
		AccountDetails: models.AccountDetails{
			TeamMembers: []string{},
		},
		Collections: []models.Collection{},
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestOwner creates an account promoted to owner with generous limits.
func CreateTestOwner(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	owner := CreateTestAccount(t, db)
	owner.Role = models.RoleOwner
	owner.ProductID = uuid.NewString()
	owner.AccountDetails = models.AccountDetails{
		AllowedCredits:     100,
		UsedCredits:        0,
		AllowedTeamMembers: 5,
		AllowedAssistants:  5,
		TeamMembers:        []string{},
	}
	if err := db.Save(owner).Error; err != nil {
		t.Fatalf("failed to promote test owner: %v", err)
	}
	return owner
}

// CreateTestTeamMember creates an account linked to the owner. The owner row
// is reloaded first so a whole-document save cannot clobber collections
// created since the caller's copy was read.
func CreateTestTeamMember(t *testing.T, db *gorm.DB, owner *models.Account) *models.Account {
	t.Helper()

	member := CreateTestAccount(t, db)
	member.Role = models.RoleUser
	member.OwnerID = owner.ID.String()
	if err := db.Save(member).Error; err != nil {
		t.Fatalf("failed to link test team member: %v", err)
	}

	var current models.Account
	if err := db.First(&current, "id = ?", owner.ID).Error; err != nil {
		t.Fatalf("failed to reload test owner: %v", err)
	}
	current.AccountDetails.TeamMembers = append(current.AccountDetails.TeamMembers, member.ID.String())
	if err := db.Save(&current).Error; err != nil {
		t.Fatalf("failed to update test owner team: %v", err)
	}
	*owner = current
	return member
}

// CreateTestJWTService creates a JWT service with a fixed test secret.
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken issues a valid token for the account.
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, account *models.Account) string {
	t.Helper()

	token, err := jwtService.GenerateToken(account.ID, account.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest builds a JSON request carrying the bearer token.
func AuthenticatedRequest(t *testing.T, method, target, token string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DecodeResponse decodes a JSON response body into v.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// NoopEnqueuer satisfies the asynq enqueue surface without a redis server.
type NoopEnqueuer struct {
	Tasks []*asynq.Task
}

func (n *NoopEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	n.Tasks = append(n.Tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}
