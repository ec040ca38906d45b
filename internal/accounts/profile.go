package accounts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// LoggedInUser is the profile view the front end renders after login. The
// collection list comes from the effective owner, filtered to what the caller
// can read, and the usage counters are the owner's.
type LoggedInUser struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	BusinessName   string                `json:"businessName"`
	Phone          string                `json:"phone"`
	Role           string                `json:"role"`
	ProductID      string                `json:"productId"`
	ProfileImage   string                `json:"profileImage"`
	Collections    []models.Collection   `json:"collections"`
	UsedCredits    float64               `json:"usedCredits"`
	AllowedCredits float64               `json:"allowedCredits"`
	UsedAssistants int                   `json:"usedAssistants"`
	AccountDetails models.AccountDetails `json:"accountDetails"`
}

// GetLoggedInUser assembles the profile view for the account behind a token.
func (s *Service) GetLoggedInUser(ctx context.Context, email string) (*LoggedInUser, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &LoggedInUser{
		ID:           account.ID.String(),
		Email:        account.Email,
		Name:         account.Name,
		BusinessName: account.BusinessName,
		Phone:        account.Phone,
		Role:         account.Role,
		ProductID:    account.ProductID,
		ProfileImage: account.ProfileImage,
		Collections:  []models.Collection{},
	}

	if account.Role == models.RoleNone {
		return user, nil
	}

	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return nil, err
	}

	accountID := account.ID.String()
	for i := range owner.Collections {
		collection := owner.Collections[i]
		if !collection.HasReadAccess(accountID) {
			continue
		}
		user.Collections = append(user.Collections, collection)
	}

	user.UsedCredits = owner.AccountDetails.UsedCredits
	user.AllowedCredits = owner.AccountDetails.AllowedCredits
	user.UsedAssistants = len(owner.Collections)
	user.AccountDetails = owner.AccountDetails
	return user, nil
}

// ProfileSettingsInput carries the editable profile fields. Password change
// is optional and requires the current password.
type ProfileSettingsInput struct {
	Name            string
	BusinessName    string
	Phone           string
	CurrentPassword string
	NewPassword     string
}

// SetProfileSettings updates name/business/phone, optionally rotates the
// password, and optionally replaces the profile image. A replaced image is
// deleted from storage after the new one is written.
func (s *Service) SetProfileSettings(ctx context.Context, email string, input ProfileSettingsInput, image *FileUpload) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	account.Name = input.Name
	account.BusinessName = input.BusinessName
	account.Phone = input.Phone

	if input.NewPassword != "" {
		if !auth.CheckPassword(input.CurrentPassword, account.PasswordHash, account.PasswordSalt) {
			return apperr.PreconditionFailed("Current password is incorrect")
		}
		hash, salt, err := auth.HashPassword(input.NewPassword)
		if err != nil {
			return apperr.Internal("Something went wrong", err)
		}
		account.PasswordHash = hash
		account.PasswordSalt = salt
	}

	if image != nil {
		key := fmt.Sprintf("profileImages/%s-%s", uuid.NewString(), sanitizeFilename(image.Filename))
		if err := s.store.Upload(ctx, key, image.ContentType, bytes.NewReader(image.Data)); err != nil {
			return apperr.Internal("Something went wrong", err)
		}
		old := account.ProfileImage
		account.ProfileImage = key
		if old != "" {
			if err := s.store.Delete(ctx, old); err != nil {
				s.logger.Warn("removing previous profile image failed", "key", old, "error", err)
			}
		}
	}

	return s.save(ctx, account)
}

// ProfileImageURL returns the CDN location of the account's profile image.
func (s *Service) ProfileImageURL(ctx context.Context, email string) (string, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account.ProfileImage == "" {
		return "", apperr.NotFound("No profile image set")
	}
	return s.store.PublicURL(account.ProfileImage), nil
}
