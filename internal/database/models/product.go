package models

// ProductStripe holds the payment-processor ids backing a plan.
type ProductStripe struct {
	ProductID string `json:"productId"`
	PriceID   string `json:"priceId"`
}

// Product is a subscription plan. Custom plans are only visible to the users
// listed in AvailableToUsers.
type Product struct {
	Base
	Name               string        `gorm:"not null" json:"name"`
	Price              float64       `json:"price"`
	AllowedTeamMembers int           `json:"allowed_team_members"`
	AllowedCredits     float64       `json:"allowed_credits"`
	AllowedAssistants  int           `json:"allowed_assistants"`
	Stripe             ProductStripe `gorm:"serializer:json" json:"stripe"`
	Custom             bool          `gorm:"default:false" json:"custom"`
	AvailableToUsers   []string      `gorm:"serializer:json" json:"available_to_users"`
}

func (Product) TableName() string {
	return "products"
}

// AvailableTo reports whether a custom product has been granted to the user.
func (p *Product) AvailableTo(userID string) bool {
	for _, id := range p.AvailableToUsers {
		if id == userID {
			return true
		}
	}
	return false
}
