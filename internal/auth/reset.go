package auth

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"github.com/aiquanty/Quanty-Backend/internal/tasks"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PasswordResetService mails signed reset links and consumes them.
type PasswordResetService struct {
	db   *gorm.DB
	jwt  *JWTService
	jobs taskEnqueuer
}

func NewPasswordResetService(db *gorm.DB, jwt *JWTService, jobs taskEnqueuer) *PasswordResetService {
	return &PasswordResetService{db: db, jwt: jwt, jobs: jobs}
}

// ForgotPassword queues a reset mail carrying a short-lived signed token.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("Something went wrong", err)
	}

	token, err := s.jwt.GenerateToken(account.ID, account.Email)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	task, err := tasks.NewPasswordResetMailTask(tasks.PasswordResetMailPayload{
		To:    account.Email,
		Name:  account.Name,
		Token: token,
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// ResetPassword validates the mailed token and replaces the password.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired token")
	}

	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", claims.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("Something went wrong", err)
	}

	hash, salt, err := HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	account.PasswordHash = hash
	account.PasswordSalt = salt

	if err := s.db.WithContext(ctx).Save(&account).Error; err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}
