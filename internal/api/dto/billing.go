package dto

type SubscriptionRequest struct {
	ProductID string `json:"productId"`
}

func (r SubscriptionRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.ProductID == "" {
		errors["productId"] = "Product id is required"
	}
	return errors
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type AdminSubscriptionRequest struct {
	Email     string `json:"email"`
	ProductID string `json:"productId"`
}

func (r AdminSubscriptionRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.ProductID == "" {
		errors["productId"] = "Product id is required"
	}

	return errors
}

type CreateProductRequest struct {
	Name               string   `json:"name"`
	Price              float64  `json:"price"`
	AllowedTeamMembers int      `json:"allowedTeamMembers"`
	AllowedCredits     float64  `json:"allowedCredits"`
	AllowedAssistants  int      `json:"allowedAssistants"`
	Custom             bool     `json:"custom"`
	AvailableToUsers   []string `json:"availableToUsers"`
}

func (r CreateProductRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

type OwnerDetailsRequest struct {
	Email string `json:"email"`
}

func (r OwnerDetailsRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	return errors
}
