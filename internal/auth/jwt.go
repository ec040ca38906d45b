package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the account identity. InviteEmail is set only on team
// invitation tokens and names the address being invited.
type Claims struct {
	AccountID   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin,omitempty"`
	InviteEmail string    `json:"invite_email,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (s *JWTService) GenerateToken(accountID uuid.UUID, email string) (string, error) {
	return s.sign(Claims{AccountID: accountID, Email: email})
}

func (s *JWTService) GenerateAdminToken(adminID uuid.UUID, email string) (string, error) {
	return s.sign(Claims{AccountID: adminID, Email: email, IsAdmin: true})
}

// GenerateInviteToken signs a token an owner mails to a prospective team
// member. The subject stays the owner; InviteEmail is the invitee.
func (s *JWTService) GenerateInviteToken(ownerID uuid.UUID, ownerEmail, inviteEmail string) (string, error) {
	return s.sign(Claims{AccountID: ownerID, Email: ownerEmail, InviteEmail: inviteEmail})
}

func (s *JWTService) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "quanty-backend",
		Subject:   claims.AccountID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
