// Package accounts implements the account/collection/credit core: ownership
// resolution, per-collection ACLs, collection and project lifecycle, and
// metered query accounting.
package accounts

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// ObjectStore is the slice of the storage service the core needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// AIClient is the slice of the AI backend client the core needs.
type AIClient interface {
	CreateProject(ctx context.Context, req aibackend.CreateProjectRequest) (*aibackend.CreateProjectResult, error)
	EditCollection(ctx context.Context, oldName, newName string) (*aibackend.StatusResult, error)
	DeleteCollection(ctx context.Context, name string) (*aibackend.StatusResult, error)
	AnswerQuery(ctx context.Context, req aibackend.AnswerQueryRequest) (*aibackend.AnswerQueryResult, error)
}

type Service struct {
	db     *gorm.DB
	ai     AIClient
	store  ObjectStore
	locks  *ownerLocks
	logger *slog.Logger
}

func NewService(db *gorm.DB, ai AIClient, store ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		ai:     ai,
		store:  store,
		locks:  newOwnerLocks(),
		logger: logger,
	}
}

// GetByEmail loads an account by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}
	return &account, nil
}

// GetByID loads an account by id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Account, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("User not found")
	}
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "id = ?", parsed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}
	return &account, nil
}

// GetByStripeCustomerID resolves the account a webhook event belongs to.
func (s *Service) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No user found for the customer id")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}
	return &account, nil
}

// GetUsersByProductID lists the accounts subscribed to a plan.
func (s *Service) GetUsersByProductID(ctx context.Context, productID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).Find(&accounts).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	return accounts, nil
}

func (s *Service) save(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}
