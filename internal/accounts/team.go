package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"github.com/aiquanty/Quanty-Backend/internal/tasks"
)

// Enqueuer is the slice of the asynq client the team flow needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TeamService runs the invitation flow: an owner mails a signed link, the
// invitee signs up or logs in, then accepts and is linked to the owner.
type TeamService struct {
	core   *Service
	tokens auth.TokenService
	jobs   Enqueuer
	logger *slog.Logger
}

func NewTeamService(core *Service, tokens auth.TokenService, jobs Enqueuer, logger *slog.Logger) *TeamService {
	return &TeamService{
		core:   core,
		tokens: tokens,
		jobs:   jobs,
		logger: logger,
	}
}

// Invite mails a signed invitation link to inviteEmail. The link lands on
// /login when the invitee already has an account, /signup otherwise.
func (t *TeamService) Invite(ctx context.Context, ownerEmail, inviteEmail string) error {
	owner, err := t.core.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return err
	}
	if owner.Role != models.RoleOwner {
		return apperr.PreconditionFailed("Only owner can invite team members")
	}
	if len(owner.AccountDetails.TeamMembers) >= owner.AccountDetails.AllowedTeamMembers {
		return apperr.PreconditionFailed("Team member limit reached for current subscription")
	}

	path := "/signup"
	invitee, err := t.core.GetByEmail(ctx, inviteEmail)
	if err == nil {
		if invitee.Role != models.RoleNone {
			return apperr.PreconditionFailed("User is already part of a team")
		}
		path = "/login"
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}

	token, err := t.tokens.GenerateInviteToken(owner.ID, owner.Email, inviteEmail)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	task, err := tasks.NewInvitationMailTask(tasks.InvitationMailPayload{
		To:        inviteEmail,
		OwnerName: owner.Name,
		Token:     token,
		Path:      path,
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if _, err := t.jobs.EnqueueContext(ctx, task); err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	t.logger.Info("team invitation queued", "owner", owner.Email, "invitee", inviteEmail)
	return nil
}

// InvitationDetails is what the front end needs to render the accept page.
type InvitationDetails struct {
	OwnerEmail  string `json:"ownerEmail"`
	OwnerName   string `json:"ownerName"`
	InviteEmail string `json:"inviteEmail"`
	HasAccount  bool   `json:"hasAccount"`
}

// Invitation introspects an invitation token without consuming it.
func (t *TeamService) Invitation(ctx context.Context, token string) (*InvitationDetails, error) {
	claims, err := t.tokens.ValidateToken(token)
	if err != nil || claims.InviteEmail == "" {
		return nil, apperr.Unauthorized("Invalid invitation")
	}

	owner, err := t.core.GetByID(ctx, claims.AccountID.String())
	if err != nil {
		return nil, apperr.NotFound("Owner account no longer exists")
	}

	hasAccount := true
	if _, err := t.core.GetByEmail(ctx, claims.InviteEmail); err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			return nil, err
		}
		hasAccount = false
	}

	return &InvitationDetails{
		OwnerEmail:  owner.Email,
		OwnerName:   owner.Name,
		InviteEmail: claims.InviteEmail,
		HasAccount:  hasAccount,
	}, nil
}

// Accept consumes an invitation on behalf of the logged-in account. The
// invitee must match the token's invite address and must not belong to a team
// already. The owner's member list and the invitee's linkage change together
// in one transaction, under the owner lock so the limit check holds.
func (t *TeamService) Accept(ctx context.Context, accountEmail, token string) error {
	claims, err := t.tokens.ValidateToken(token)
	if err != nil || claims.InviteEmail == "" {
		return apperr.Unauthorized("Invalid invitation")
	}
	if claims.InviteEmail != accountEmail {
		return apperr.PreconditionFailed("Invitation does not belong to this user")
	}

	invitee, err := t.core.GetByEmail(ctx, accountEmail)
	if err != nil {
		return err
	}
	if invitee.Role != models.RoleNone {
		return apperr.PreconditionFailed("User is already part of a team")
	}

	unlock := t.core.locks.lock(claims.AccountID)
	defer unlock()

	owner, err := t.core.GetByID(ctx, claims.AccountID.String())
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.NotFound("Owner account no longer exists")
		}
		return err
	}
	if owner.Role != models.RoleOwner {
		return apperr.PreconditionFailed("Owner no longer has a subscription")
	}
	if len(owner.AccountDetails.TeamMembers) >= owner.AccountDetails.AllowedTeamMembers {
		return apperr.PreconditionFailed("Team member limit reached for current subscription")
	}

	invitee.Role = models.RoleUser
	invitee.OwnerID = owner.ID.String()
	owner.AccountDetails.TeamMembers = append(owner.AccountDetails.TeamMembers, invitee.ID.String())

	err = t.core.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invitee).Error; err != nil {
			return err
		}
		return tx.Save(owner).Error
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// TeamMemberView is the owner-facing summary of one team member.
type TeamMemberView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

// TeamMemberDetails lists the owner's team members. Owner only.
func (s *Service) TeamMemberDetails(ctx context.Context, email string) ([]TeamMemberView, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Role != models.RoleOwner {
		return nil, apperr.PreconditionFailed("Only owner is allowed to view the team details")
	}

	members := []TeamMemberView{}
	for _, id := range account.AccountDetails.TeamMembers {
		member, err := s.GetByID(ctx, id)
		if err != nil {
			// A member row that vanished is skipped rather than failing
			// the whole listing.
			if apperr.IsKind(err, apperr.KindNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, TeamMemberView{
			ID:           member.ID.String(),
			Email:        member.Email,
			Name:         member.Name,
			ProfileImage: member.ProfileImage,
		})
	}
	return members, nil
}

// RemoveTeamMember unlinks one member: role back to none, ownerId cleared,
// dropped from the owner's member list and from every collection access set.
func (s *Service) RemoveTeamMember(ctx context.Context, ownerEmail, memberID string) error {
	account, err := s.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return err
	}
	if account.Role != models.RoleOwner {
		return apperr.PreconditionFailed("Only owner can remove team members")
	}

	unlock := s.locks.lock(account.ID)
	defer unlock()

	owner, err := s.GetByID(ctx, account.ID.String())
	if err != nil {
		return err
	}

	found := false
	for _, id := range owner.AccountDetails.TeamMembers {
		if id == memberID {
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("Team member not found")
	}

	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	member.Role = models.RoleNone
	member.OwnerID = ""

	owner.AccountDetails.TeamMembers = removeString(owner.AccountDetails.TeamMembers, memberID)
	for i := range owner.Collections {
		collection := &owner.Collections[i]
		collection.ReadAccess = removeString(collection.ReadAccess, memberID)
		collection.WriteAccess = removeString(collection.WriteAccess, memberID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(member).Error; err != nil {
			return err
		}
		return tx.Save(owner).Error
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// RemoveSubscriptionFromUser tears down a lapsed subscription: every team
// member is reset first (role none, linkage cleared), then the owner's limits
// and team list are zeroed and the plan unset. One transaction, so a crash
// never leaves members pointing at an owner with no plan.
func (s *Service) RemoveSubscriptionFromUser(ctx context.Context, ownerID string) error {
	account, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(account.ID)
	defer unlock()

	owner, err := s.GetByID(ctx, account.ID.String())
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, memberID := range owner.AccountDetails.TeamMembers {
			var member models.Account
			if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			member.Role = models.RoleNone
			member.OwnerID = ""
			if err := tx.Save(&member).Error; err != nil {
				return err
			}
		}

		owner.Role = models.RoleNone
		owner.ProductID = ""
		owner.FreeSubscription = false
		owner.StripeSubscriptionID = ""
		owner.AccountDetails = models.AccountDetails{TeamMembers: []string{}}
		return tx.Save(owner).Error
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}
