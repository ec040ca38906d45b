package accounts

import (
	"context"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

type accessMode int

const (
	accessRead accessMode = iota
	accessWrite
)

// EffectiveOwner resolves the account that holds the authoritative collection
// list and credit counters for a request. Owners resolve to themselves; team
// members resolve through their OwnerID. Recomputed on every request, never
// cached, so a removed team member (role reset to none) short-circuits here.
func (s *Service) EffectiveOwner(ctx context.Context, account *models.Account) (*models.Account, error) {
	switch account.Role {
	case models.RoleOwner:
		return account, nil
	case models.RoleUser:
		owner, err := s.GetByID(ctx, account.OwnerID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return nil, apperr.NotFound("Owner account no longer exists")
			}
			return nil, err
		}
		return owner, nil
	default:
		return nil, apperr.PreconditionFailed("User is not permitted")
	}
}

// requireAccess finds the named collection in the owner's list and checks the
// requesting account against the corresponding access set. The returned
// pointer aliases the owner's collection slice so callers can mutate it in
// place before saving the owner document.
func requireAccess(account *models.Account, owner *models.Account, collectionName string, mode accessMode) (*models.Collection, error) {
	collection := owner.CollectionByName(collectionName)
	if collection == nil {
		return nil, apperr.NotFound("Collection not found")
	}

	accountID := account.ID.String()
	switch mode {
	case accessWrite:
		if !collection.HasWriteAccess(accountID) {
			return nil, apperr.PreconditionFailed("User is not allowed to modify this collection")
		}
	default:
		if !collection.HasReadAccess(accountID) {
			return nil, apperr.PreconditionFailed("User is not allowed to view this collection")
		}
	}
	return collection, nil
}
