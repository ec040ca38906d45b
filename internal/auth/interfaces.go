package auth

import (
	"context"

	"github.com/google/uuid"
)

// Authenticator defines the credential-exchange operations.
type Authenticator interface {
	Signup(ctx context.Context, input SignupInput) error
	Signin(ctx context.Context, input SigninInput) (*SigninResult, error)
	AdminSignin(ctx context.Context, input SigninInput) (*SigninResult, error)
}

// TokenService defines the bearer-token operations.
type TokenService interface {
	GenerateToken(accountID uuid.UUID, email string) (string, error)
	GenerateAdminToken(adminID uuid.UUID, email string) (string, error)
	GenerateInviteToken(ownerID uuid.UUID, ownerEmail, inviteEmail string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
