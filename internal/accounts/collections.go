package accounts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// CreateCollection appends a new, empty collection to the effective owner's
// list. The creator's owner is seeded into both access sets.
func (s *Service) CreateCollection(ctx context.Context, email, collectionName string) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(owner.ID)
	defer unlock()

	// Re-read under the lock so the limit and collision checks see the
	// latest document.
	owner, err = s.GetByID(ctx, owner.ID.String())
	if err != nil {
		return err
	}

	if len(owner.Collections) >= owner.AccountDetails.AllowedAssistants {
		return apperr.PreconditionFailed("Assistant limit reached for current subscription")
	}
	if owner.HasCollectionNamed(collectionName) {
		return apperr.PreconditionFailed("Collection name already exists")
	}

	ownerID := owner.ID.String()
	owner.Collections = append(owner.Collections, models.Collection{
		Name:        collectionName,
		ReadAccess:  []string{ownerID},
		WriteAccess: []string{ownerID},
		NoOfPages:   0,
		Projects:    []models.Project{},
	})

	return s.save(ctx, owner)
}

// CollectionNames lists the names of every collection the effective owner
// holds.
func (s *Service) CollectionNames(ctx context.Context, email string) ([]string, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(owner.Collections))
	for i := range owner.Collections {
		names = append(names, owner.Collections[i].Name)
	}
	return names, nil
}

// RenameCollection renames a collection, write access required. The AI
// backend renames the underlying corpus first; the embedded name only changes
// after the backend confirms, and a failed call leaves everything untouched.
func (s *Service) RenameCollection(ctx context.Context, email, oldName, newName string) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(owner.ID)
	defer unlock()

	owner, err = s.GetByID(ctx, owner.ID.String())
	if err != nil {
		return err
	}

	collection, err := requireAccess(account, owner, oldName, accessWrite)
	if err != nil {
		return err
	}

	result, err := s.ai.EditCollection(ctx, oldName, newName)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if result.StatusCode != http.StatusOK || !result.Success {
		return apperr.Internal("Something went wrong", nil)
	}

	collection.Name = newName
	return s.save(ctx, owner)
}

// DeleteCollection removes a collection, write access required. Stored
// project files are deleted first, failing fast without compensating for
// earlier deletions; the AI backend drops the corpus next; only then is the
// entry removed from the owner's list.
func (s *Service) DeleteCollection(ctx context.Context, email, collectionName string) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(owner.ID)
	defer unlock()

	owner, err = s.GetByID(ctx, owner.ID.String())
	if err != nil {
		return err
	}

	collection, err := requireAccess(account, owner, collectionName, accessWrite)
	if err != nil {
		return err
	}

	for i := range collection.Projects {
		project := &collection.Projects[i]
		if project.File == "" {
			continue
		}
		key := fmt.Sprintf("asset/%s/%s/%d-%s", owner.Email, collection.Name, project.ID, project.File)
		if err := s.store.Delete(ctx, key); err != nil {
			return apperr.Internal("Something went wrong", err)
		}
	}

	result, err := s.ai.DeleteCollection(ctx, owner.Email+collectionName)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if result.StatusCode != http.StatusOK || !result.Success {
		return apperr.Internal("Something went wrong", nil)
	}

	kept := owner.Collections[:0]
	for i := range owner.Collections {
		if owner.Collections[i].Name != collectionName {
			kept = append(kept, owner.Collections[i])
		}
	}
	owner.Collections = kept

	return s.save(ctx, owner)
}

// CollectionsWithAccess returns the owner's full collection list including
// access sets. Owner only.
func (s *Service) CollectionsWithAccess(ctx context.Context, email string) ([]models.Collection, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Role != models.RoleOwner {
		return nil, apperr.PreconditionFailed("Only owner is allowed to view the access details")
	}
	return account.Collections, nil
}

// SetAccessInput names one grant or revocation on a collection's ACLs.
type SetAccessInput struct {
	CollectionName string
	UserID         string
	ReadAccess     bool
	WriteAccess    bool
	Action         string // "add" or "remove"
}

// SetUserAccess adds or removes a user in a collection's read/write sets.
// Only the owner may change access; duplicate adds and missing removes are
// rejected.
func (s *Service) SetUserAccess(ctx context.Context, email string, input SetAccessInput) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Role != models.RoleOwner {
		return apperr.PreconditionFailed("Only owner can set user access")
	}

	unlock := s.locks.lock(account.ID)
	defer unlock()

	account, err = s.GetByID(ctx, account.ID.String())
	if err != nil {
		return err
	}

	collection := account.CollectionByName(input.CollectionName)
	if collection == nil {
		return apperr.NotFound("Collection not found")
	}

	switch input.Action {
	case "add":
		if input.ReadAccess {
			if collection.HasReadAccess(input.UserID) {
				return apperr.PreconditionFailed("Already have access")
			}
			collection.ReadAccess = append(collection.ReadAccess, input.UserID)
		}
		if input.WriteAccess {
			if collection.HasWriteAccess(input.UserID) {
				return apperr.PreconditionFailed("Already have access")
			}
			collection.WriteAccess = append(collection.WriteAccess, input.UserID)
		}
	case "remove":
		if input.ReadAccess {
			if !collection.HasReadAccess(input.UserID) {
				return apperr.PreconditionFailed("User access does not exist")
			}
			collection.ReadAccess = removeString(collection.ReadAccess, input.UserID)
		}
		if input.WriteAccess {
			if !collection.HasWriteAccess(input.UserID) {
				return apperr.PreconditionFailed("User access does not exist")
			}
			collection.WriteAccess = removeString(collection.WriteAccess, input.UserID)
		}
	default:
		return apperr.BadRequest("Invalid action")
	}

	return s.save(ctx, account)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
