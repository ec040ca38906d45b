package accounts

import (
	"context"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// OwnerSummary is the admin console's row for one subscribed owner.
type OwnerSummary struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	BusinessName     string  `json:"businessName"`
	ProductID        string  `json:"productId"`
	FreeSubscription bool    `json:"freeSubscription"`
	UsedCredits      float64 `json:"usedCredits"`
	AllowedCredits   float64 `json:"allowedCredits"`
	TeamSize         int     `json:"teamSize"`
	Assistants       int     `json:"assistants"`
}

// AllOwners lists every subscribed owner account.
func (s *Service) AllOwners(ctx context.Context) ([]OwnerSummary, error) {
	var owners []models.Account
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleOwner).Find(&owners).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	summaries := make([]OwnerSummary, 0, len(owners))
	for i := range owners {
		owner := &owners[i]
		summaries = append(summaries, OwnerSummary{
			ID:               owner.ID.String(),
			Email:            owner.Email,
			Name:             owner.Name,
			BusinessName:     owner.BusinessName,
			ProductID:        owner.ProductID,
			FreeSubscription: owner.FreeSubscription,
			UsedCredits:      owner.AccountDetails.UsedCredits,
			AllowedCredits:   owner.AccountDetails.AllowedCredits,
			TeamSize:         len(owner.AccountDetails.TeamMembers),
			Assistants:       len(owner.Collections),
		})
	}
	return summaries, nil
}

// UserSummary is the admin console's row for an unsubscribed account.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NonSubscribedUsers lists accounts that never subscribed and are not on a
// team, the candidates for an admin-granted free plan.
func (s *Service) NonSubscribedUsers(ctx context.Context) ([]UserSummary, error) {
	var users []models.Account
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleNone).Find(&users).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		user := &users[i]
		summaries = append(summaries, UserSummary{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
			Phone: user.Phone,
		})
	}
	return summaries, nil
}

// OwnerDetails is the admin drill-down: the owner summary plus team members.
type OwnerDetails struct {
	Owner       OwnerSummary     `json:"owner"`
	TeamMembers []TeamMemberView `json:"teamMembers"`
}

// OwnerDetailsByEmail resolves one owner and their team for the admin console.
func (s *Service) OwnerDetailsByEmail(ctx context.Context, email string) (*OwnerDetails, error) {
	owner, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if owner.Role != models.RoleOwner {
		return nil, apperr.PreconditionFailed("User is not an owner")
	}

	members, err := s.TeamMemberDetails(ctx, owner.Email)
	if err != nil {
		return nil, err
	}

	return &OwnerDetails{
		Owner: OwnerSummary{
			ID:               owner.ID.String(),
			Email:            owner.Email,
			Name:             owner.Name,
			BusinessName:     owner.BusinessName,
			ProductID:        owner.ProductID,
			FreeSubscription: owner.FreeSubscription,
			UsedCredits:      owner.AccountDetails.UsedCredits,
			AllowedCredits:   owner.AccountDetails.AllowedCredits,
			TeamSize:         len(owner.AccountDetails.TeamMembers),
			Assistants:       len(owner.Collections),
		},
		TeamMembers: members,
	}, nil
}
