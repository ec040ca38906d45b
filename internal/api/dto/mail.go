package dto

type SendUserQueryRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Query string `json:"query"`
}

func (r SendUserQueryRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Query == "" {
		errors["query"] = "Query is required"
	}

	return errors
}
