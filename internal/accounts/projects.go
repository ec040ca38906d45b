package accounts

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// FileUpload is one multipart file taken off the request.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectInput carries the shared project configuration fields.
type ProjectInput struct {
	Name           string
	CollectionName string
	Description    string
	Model          string
	Language       string
	DataAnomiyzer  bool
	SourceChatGpt  bool
	BestGuess      float64
}

var supportedFileTypes = []string{"pdf", "txt", "text", "doc"}

func isSupportedFileType(contentType string) bool {
	for _, t := range supportedFileTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

// sanitizeFilename strips the characters the CDN key scheme cannot carry.
func sanitizeFilename(name string) string {
	return strings.NewReplacer("+", "", "%", "").Replace(name)
}

// CreateProjectForFiles ingests one or more uploaded files into a collection.
// Unsupported MIME types are dropped silently when several files were
// submitted, rejected outright when there was only one. Each accepted file is
// uploaded to storage, handed to the AI backend, and recorded as an
// append-only project whose id is the project count at append time. The
// strict 412/page-count handling applies only to the single-file case.
func (s *Service) CreateProjectForFiles(ctx context.Context, email string, input ProjectInput, files []FileUpload) error {
	if len(files) == 0 {
		return apperr.PreconditionFailed("Please upload a file")
	}

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

	collection, err := requireAccess(account, owner, input.CollectionName, accessWrite)
	if err != nil {
		return err
	}

	singleFile := len(files) == 1
	accepted := files[:0]
	for _, file := range files {
		if !isSupportedFileType(file.ContentType) {
			if singleFile {
				return apperr.PreconditionFailed("File type not supported")
			}
			continue
		}
		accepted = append(accepted, file)
	}

	for _, file := range accepted {
		filename := sanitizeFilename(file.Filename)
		key := fmt.Sprintf("asset/%s/%s/%d-%s", owner.Email, collection.Name, len(collection.Projects), filename)

		if err := s.store.Upload(ctx, key, file.ContentType, bytes.NewReader(file.Data)); err != nil {
			return apperr.Internal("Something went wrong", err)
		}

		result, err := s.ai.CreateProject(ctx, aibackend.CreateProjectRequest{
			Type:           models.ProjectTypeFile,
			CollectionName: owner.Email + collection.Name,
			FileLink:       s.store.PublicURL(key),
			URLs:           []string{},
			Description:    input.Description,
			Model:          input.Model,
			DataAnomiyzer:  input.DataAnomiyzer,
			SourceChatGpt:  input.SourceChatGpt,
			BestGuess:      input.BestGuess,
			Language:       input.Language,
			NoOfPages:      collection.NoOfPages,
		})
		if err != nil {
			return apperr.Internal("Something went wrong", err)
		}

		if singleFile {
			if result.StatusCode != http.StatusOK && result.StatusCode != http.StatusPreconditionFailed {
				return apperr.Internal("Something went wrong", nil)
			}
			if result.StatusCode == http.StatusPreconditionFailed {
				return apperr.PreconditionFailed(result.Message)
			}
			if !result.Success || result.NoOfPages == 0 {
				return apperr.Internal("Something went wrong", nil)
			}
		}

		collection.NoOfPages += result.NoOfPages
		collection.Projects = append(collection.Projects, models.Project{
			ID:            len(collection.Projects),
			Name:          input.Name,
			Type:          models.ProjectTypeFile,
			Description:   input.Description,
			Model:         input.Model,
			Language:      input.Language,
			DataAnomiyzer: input.DataAnomiyzer,
			SourceChatGpt: input.SourceChatGpt,
			BestGuess:     input.BestGuess,
			URLs:          []string{},
			File:          filename,
			Date:          time.Now(),
		})
	}

	return s.save(ctx, owner)
}

// CreateProjectForURLs ingests up to three URLs into a collection.
func (s *Service) CreateProjectForURLs(ctx context.Context, email string, input ProjectInput, urls []string) error {
	if len(urls) > 3 {
		return apperr.PreconditionFailed("Only 3 urls are allowed")
	}

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

	collection, err := requireAccess(account, owner, input.CollectionName, accessWrite)
	if err != nil {
		return err
	}

	result, err := s.ai.CreateProject(ctx, aibackend.CreateProjectRequest{
		Type:           models.ProjectTypeURL,
		CollectionName: owner.Email + collection.Name,
		URLs:           urls,
		Description:    input.Description,
		Model:          input.Model,
		DataAnomiyzer:  input.DataAnomiyzer,
		SourceChatGpt:  input.SourceChatGpt,
		BestGuess:      input.BestGuess,
		Language:       input.Language,
		NoOfPages:      collection.NoOfPages,
	})
	if err != nil {
		return apperr.Internal("Something went wrong, please try again later", err)
	}
	if result.StatusCode != http.StatusOK && result.StatusCode != http.StatusPreconditionFailed {
		return apperr.Internal("Something went wrong", nil)
	}
	if result.StatusCode == http.StatusPreconditionFailed {
		return apperr.PreconditionFailed(result.Message)
	}
	if !result.Success {
		return apperr.Internal("Something went wrong", nil)
	}

	collection.NoOfPages += result.NoOfPages
	collection.Projects = append(collection.Projects, models.Project{
		ID:            len(collection.Projects),
		Name:          input.Name,
		Type:          models.ProjectTypeURL,
		Description:   input.Description,
		Model:         input.Model,
		Language:      input.Language,
		DataAnomiyzer: input.DataAnomiyzer,
		SourceChatGpt: input.SourceChatGpt,
		BestGuess:     input.BestGuess,
		URLs:          urls,
		File:          "",
		Date:          time.Now(),
	})

	return s.save(ctx, owner)
}

// ProjectFileKey resolves the storage key of a project's uploaded file,
// read access required.
func (s *Service) ProjectFileKey(ctx context.Context, email, collectionName string, projectID int) (string, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	owner, err := s.EffectiveOwner(ctx, account)
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
	if project.File == "" {
		return "", apperr.NotFound("Project has no file")
	}

	return fmt.Sprintf("asset/%s/%s/%d-%s", owner.Email, collection.Name, project.ID, project.File), nil
}

// ProjectView is a project tagged with the collection it belongs to.
type ProjectView struct {
	models.Project
	CollectionName string `json:"collectionName"`
}

// UserProjects flattens every project the account can read, tagged with its
// collection name.
func (s *Service) UserProjects(ctx context.Context, email string) ([]ProjectView, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	owner, err := s.EffectiveOwner(ctx, account)
	if err != nil {
		return nil, err
	}

	accountID := account.ID.String()
	projects := []ProjectView{}
	for i := range owner.Collections {
		collection := &owner.Collections[i]
		if !collection.HasReadAccess(accountID) {
			continue
		}
		for _, project := range collection.Projects {
			projects = append(projects, ProjectView{Project: project, CollectionName: collection.Name})
		}
	}
	return projects, nil
}
