package dto

type CreateCollectionRequest struct {
	CollectionName string `json:"collectionName"`
}

func (r CreateCollectionRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.CollectionName == "" {
		errors["collectionName"] = "Collection name is required"
	}
	return errors
}

type EditCollectionNameRequest struct {
	OldCollectionName string `json:"oldCollectionName"`
	NewCollectionName string `json:"newCollectionName"`
}

func (r EditCollectionNameRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.OldCollectionName == "" {
		errors["oldCollectionName"] = "Old collection name is required"
	}
	if r.NewCollectionName == "" {
		errors["newCollectionName"] = "New collection name is required"
	}

	return errors
}

type DeleteCollectionRequest struct {
	CollectionName string `json:"collectionName"`
}

func (r DeleteCollectionRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.CollectionName == "" {
		errors["collectionName"] = "Collection name is required"
	}
	return errors
}

// ProjectRequest carries the project configuration shared by the file and
// URL ingestion endpoints. The file variant arrives as multipart form
// fields, the URL variant as JSON.
type ProjectRequest struct {
	Name           string   `json:"name"`
	CollectionName string   `json:"collectionName"`
	Description    string   `json:"description"`
	Model          string   `json:"model"`
	Language       string   `json:"language"`
	DataAnomiyzer  bool     `json:"dataAnomiyzer"`
	SourceChatGpt  bool     `json:"sourceChatGpt"`
	BestGuess      float64  `json:"bestGuess"`
	URLs           []string `json:"urls"`
}

func (r ProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Project name is required"
	}
	if r.CollectionName == "" {
		errors["collectionName"] = "Collection name is required"
	}
	if r.Model == "" {
		errors["model"] = "Model is required"
	}

	return errors
}

type AskQueryRequest struct {
	CollectionName string `json:"collectionName"`
	ProjectID      int    `json:"projectId"`
	Query          string `json:"query"`
}

func (r AskQueryRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CollectionName == "" {
		errors["collectionName"] = "Collection name is required"
	}
	if r.Query == "" {
		errors["query"] = "Query is required"
	}

	return errors
}

type AskQueryResponse struct {
	Answer string `json:"answer"`
}

type SetUserAccessRequest struct {
	CollectionName string `json:"collectionName"`
	UserID         string `json:"userId"`
	ReadAccess     bool   `json:"readAccess"`
	WriteAccess    bool   `json:"writeAccess"`
	Action         string `json:"action"`
}

func (r SetUserAccessRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CollectionName == "" {
		errors["collectionName"] = "Collection name is required"
	}
	if r.UserID == "" {
		errors["userId"] = "User id is required"
	}
	if r.Action != "add" && r.Action != "remove" {
		errors["action"] = "Action must be add or remove"
	}
	if !r.ReadAccess && !r.WriteAccess {
		errors["access"] = "At least one access type is required"
	}

	return errors
}
