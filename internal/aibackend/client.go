// Package aibackend wraps the sibling AI service that performs document
// ingestion, indexing and query answering. The contract is four JSON POST
// endpoints; calls are made once, with no retry.
package aibackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// CreateProjectRequest asks the backend to ingest a file or a set of URLs
// into the named corpus.
type CreateProjectRequest struct {
	Type           string   `json:"type"`
	CollectionName string   `json:"collectionName"`
	FileLink       string   `json:"fileLink,omitempty"`
	URLs           []string `json:"urls"`
	Description    string   `json:"description"`
	Model          string   `json:"model"`
	DataAnomiyzer  bool     `json:"dataAnomiyzer"`
	SourceChatGpt  bool     `json:"sourceChatGpt"`
	BestGuess      float64  `json:"bestGuess"`
	Language       string   `json:"language"`
	NoOfPages      int      `json:"noOfPages"`
}

// CreateProjectResult carries the backend's verdict. StatusCode is surfaced
// because ingestion limits come back as 412 with a user-facing message.
type CreateProjectResult struct {
	StatusCode int
	Success    bool
	NoOfPages  int
	Message    string
}

// AnswerQueryRequest replays a project's configuration alongside the query.
type AnswerQueryRequest struct {
	CollectionName string   `json:"collectionName"`
	Type           string   `json:"type"`
	FileIndex      int      `json:"fileIndex"`
	Filename       string   `json:"filename"`
	Description    string   `json:"description"`
	Model          string   `json:"model"`
	DataAnomiyzer  bool     `json:"dataAnomiyzer"`
	SourceChatGpt  bool     `json:"sourceChatGpt"`
	BestGuess      float64  `json:"bestGuess"`
	URLs           []string `json:"urls"`
	Language       string   `json:"language"`
	Query          string   `json:"query"`
}

type AnswerQueryResult struct {
	StatusCode int
	Success    bool
	Answer     string
}

// StatusResult is the shared shape of the collection management endpoints.
type StatusResult struct {
	StatusCode int
	Success    bool
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResult, error) {
	var body struct {
		Success   bool   `json:"success"`
		NoOfPages int    `json:"noOfPages"`
		Message   string `json:"message"`
	}
	status, err := c.post(ctx, "/api/v1/createAiPorject", req, &body)
	if err != nil {
		return nil, err
	}
	return &CreateProjectResult{
		StatusCode: status,
		Success:    body.Success,
		NoOfPages:  body.NoOfPages,
		Message:    body.Message,
	}, nil
}

func (c *Client) EditCollection(ctx context.Context, oldName, newName string) (*StatusResult, error) {
	req := map[string]string{
		"oldCollectionName": oldName,
		"newCollectionName": newName,
	}
	var body struct {
		Success bool `json:"success"`
	}
	status, err := c.post(ctx, "/api/v1/collection/edit", req, &body)
	if err != nil {
		return nil, err
	}
	return &StatusResult{StatusCode: status, Success: body.Success}, nil
}

func (c *Client) DeleteCollection(ctx context.Context, name string) (*StatusResult, error) {
	req := map[string]string{"collectionName": name}
	var body struct {
		Success bool `json:"success"`
	}
	status, err := c.post(ctx, "/api/v1/collection/delete", req, &body)
	if err != nil {
		return nil, err
	}
	return &StatusResult{StatusCode: status, Success: body.Success}, nil
}

func (c *Client) AnswerQuery(ctx context.Context, req AnswerQueryRequest) (*AnswerQueryResult, error) {
	var body struct {
		Success bool   `json:"success"`
		Answer  string `json:"answer"`
	}
	status, err := c.post(ctx, "/api/v1/answerQuery", req, &body)
	if err != nil {
		return nil, err
	}
	return &AnswerQueryResult{StatusCode: status, Success: body.Success, Answer: body.Answer}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling ai backend: %w", err)
	}
	defer resp.Body.Close()

	// Bodies are decoded regardless of status: the backend reports
	// ingestion-limit failures as 412 with a message in the body.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding ai backend response: %w", err)
	}
	return resp.StatusCode, nil
}
