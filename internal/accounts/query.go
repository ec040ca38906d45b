package accounts

import (
	"context"
	"net/http"

	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
)

// modelCosts is the credit price of a single query per model. Unknown models
// are rejected up front so a bad client cannot query for free.
var modelCosts = map[string]float64{
	"gpt-3.5-turbo-0125":  1,
	"gpt-4":               2.5,
	"gpt-4-turbo-preview": 5,
}

// AskQuery answers a query against one project of a collection, metering the
// effective owner's credits. The ceiling is checked before the AI call and
// usage is incremented only after a successful answer, so a failed call never
// burns credits.
func (s *Service) AskQuery(ctx context.Context, email, collectionName string, projectID int, query string) (string, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(owner.ID)
	defer unlock()

	owner, err = s.GetByID(ctx, owner.ID.String())
	if err != nil {
		return "", err
	}

	collection, err := requireAccess(account, owner, collectionName, accessRead)
	if err != nil {
		return "", err
	}

	if projectID < 0 || projectID >= len(collection.Projects) {
		return "", apperr.NotFound("Project not found")
	}
	project := &collection.Projects[projectID]

	cost, ok := modelCosts[project.Model]
	if !ok {
		return "", apperr.PreconditionFailed("Model not supported")
	}
	if owner.AccountDetails.UsedCredits+cost > owner.AccountDetails.AllowedCredits {
		return "", apperr.PreconditionFailed("Insufficient credits")
	}

	result, err := s.ai.AnswerQuery(ctx, aibackend.AnswerQueryRequest{
		CollectionName: owner.Email + collection.Name,
		Type:           project.Type,
		FileIndex:      project.ID,
		Filename:       project.File,
		Description:    project.Description,
		Model:          project.Model,
		DataAnomiyzer:  project.DataAnomiyzer,
		SourceChatGpt:  project.SourceChatGpt,
		BestGuess:      project.BestGuess,
		URLs:           project.URLs,
		Language:       project.Language,
		Query:          query,
	})
	if err != nil {
		return "", apperr.Internal("Something went wrong", err)
	}
	if result.StatusCode != http.StatusOK || !result.Success {
		return "", apperr.Internal("Something went wrong", nil)
	}

	owner.AccountDetails.UsedCredits += cost
	if err := s.save(ctx, owner); err != nil {
		return "", err
	}
	return result.Answer, nil
}
