package auth

import (
	"context"
	"errors"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type SignupInput struct {
	Email        string
	Password     string
	Name         string
	BusinessName string
	Phone        string
}

type SigninInput struct {
	Email    string
	Password string
}

type SigninResult struct {
	Token     string
	Email     string
	ProductID string
	Role      string
}

// Signup creates an account with role none; a role is only assigned once a
// subscription or an invitation links the account somewhere.
func (s *Service) Signup(ctx context.Context, input SignupInput) error {
	var existing models.Account
	err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return apperr.PreconditionFailed("Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("Something went wrong", err)
	}

	hash, salt, err := HashPassword(input.Password)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	account := models.Account{
		Email:        input.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Name:         input.Name,
		BusinessName: input.BusinessName,
		Phone:        input.Phone,
		Role:         models.RoleNone,
		AccountDetails: models.AccountDetails{
			TeamMembers: []string{},
		},
		Collections: []models.Collection{},
	}

	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// Signin exchanges credentials for a bearer token.
func (s *Service) Signin(ctx context.Context, input SigninInput) (*SigninResult, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	if !CheckPassword(input.Password, account.PasswordHash, account.PasswordSalt) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.jwt.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	return &SigninResult{
		Token:     token,
		Email:     account.Email,
		ProductID: account.ProductID,
		Role:      account.Role,
	}, nil
}

// AdminSignin authenticates against the admins table.
func (s *Service) AdminSignin(ctx context.Context, input SigninInput) (*SigninResult, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}

	if !CheckPassword(input.Password, admin.PasswordHash, admin.PasswordSalt) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.jwt.GenerateAdminToken(admin.ID, admin.Email)
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	return &SigninResult{Token: token, Email: admin.Email}, nil
}
