package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

func setupAuthTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Admin{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	jwtService := NewJWTService("test-secret", time.Hour)
	return NewService(db, jwtService), db
}

func TestSignupAndSignin(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	input := SignupInput{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	}
	require.NoError(t, svc.Signup(ctx, input))

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := svc.Signup(ctx, input)
		require.Error(t, err)
		assert.Equal(t, "Email already exists", apperr.Message(err))
	})

	t.Run("signin issues a token", func(t *testing.T) {
		result, err := svc.Signin(ctx, SigninInput{Email: "new@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "new@example.com", result.Email)
		assert.Equal(t, models.RoleNone, result.Role)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Signin(ctx, SigninInput{Email: "new@example.com", Password: "nope"})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		_, err := svc.Signin(ctx, SigninInput{Email: "ghost@example.com", Password: "password123"})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})
}

func TestAdminSignin(t *testing.T) {
	svc, db := setupAuthTest(t)
	ctx := context.Background()

	hash, salt, err := HashPassword("admin-password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{
		Email:        "admin@example.com",
		PasswordHash: hash,
		PasswordSalt: salt,
		Name:         "Admin",
	}).Error)

	result, err := svc.AdminSignin(ctx, SigninInput{Email: "admin@example.com", Password: "admin-password"})
	require.NoError(t, err)

	claims, err := NewJWTService("test-secret", time.Hour).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	t.Run("regular account cannot use admin signin", func(t *testing.T) {
		require.NoError(t, svc.Signup(ctx, SignupInput{Email: "user@example.com", Password: "password123", Name: "U"}))
		_, err := svc.AdminSignin(ctx, SigninInput{Email: "user@example.com", Password: "password123"})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})
}
