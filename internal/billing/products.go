package billing

import (
	"context"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/price"
	"github.com/stripe/stripe-go/v76/product"

	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
)

// ListProducts returns the plans visible to the account: every public plan
// plus any custom plan the account has been granted.
func (s *Service) ListProducts(ctx context.Context, accountID string) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	visible := []models.Product{}
	for i := range products {
		p := products[i]
		if p.Custom && !p.AvailableTo(accountID) {
			continue
		}
		visible = append(visible, p)
	}
	return visible, nil
}

// AllProducts returns every plan, custom ones included. Admin console only.
func (s *Service) AllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	return products, nil
}

// CreateProductInput describes a new plan.
type CreateProductInput struct {
	Name               string
	Price              float64
	AllowedTeamMembers int
	AllowedCredits     float64
	AllowedAssistants  int
	Custom             bool
	AvailableToUsers   []string
}

// CreateProduct registers a plan at stripe (product plus a monthly recurring
// price) and stores it locally with the stripe ids attached.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	var existing models.Product
	if err := s.db.WithContext(ctx).Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return nil, apperr.PreconditionFailed("Product name already exists")
	}

	stripeProduct, err := product.New(&stripe.ProductParams{
		Name: stripe.String(input.Name),
	})
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	stripePrice, err := price.New(&stripe.PriceParams{
		Product:    stripe.String(stripeProduct.ID),
		UnitAmount: stripe.Int64(int64(input.Price * 100)),
		Currency:   stripe.String(string(stripe.CurrencyEUR)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
	})
	if err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}

	availableTo := input.AvailableToUsers
	if availableTo == nil {
		availableTo = []string{}
	}

	p := models.Product{
		Name:               input.Name,
		Price:              input.Price,
		AllowedTeamMembers: input.AllowedTeamMembers,
		AllowedCredits:     input.AllowedCredits,
		AllowedAssistants:  input.AllowedAssistants,
		Stripe: models.ProductStripe{
			ProductID: stripeProduct.ID,
			PriceID:   stripePrice.ID,
		},
		Custom:           input.Custom,
		AvailableToUsers: availableTo,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	return &p, nil
}
