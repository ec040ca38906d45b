// Package billing owns the subscription lifecycle: checkout sessions,
// plan changes, cancellation, and the webhook reconciliation that is the only
// place plan limits get applied to an account.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"github.com/aiquanty/Quanty-Backend/pkg/config"
)

type Service struct {
	db             *gorm.DB
	accounts       *accounts.Service
	endpointSecret string
	successURL     string
	cancelURL      string
	logger         *slog.Logger
}

func NewService(db *gorm.DB, accountsSvc *accounts.Service, cfg config.StripeConfig, logger *slog.Logger) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{
		db:             db,
		accounts:       accountsSvc,
		endpointSecret: cfg.EndpointSecret,
		successURL:     cfg.SuccessURL,
		cancelURL:      cfg.CancelURL,
		logger:         logger,
	}
}

func (s *Service) productByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("Something went wrong", err)
	}
	return &product, nil
}

// productByPriceID matches a webhook's price back to a plan. The stripe ids
// live inside a JSON column, so the handful of plan rows are scanned in Go.
func (s *Service) productByPriceID(ctx context.Context, priceID string) (*models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, apperr.Internal("Something went wrong", err)
	}
	for i := range products {
		if products[i].Stripe.PriceID == priceID {
			return &products[i], nil
		}
	}
	return nil, apperr.NotFound("Product not found")
}

// CreateSubscription opens a checkout session for the chosen plan and returns
// the hosted payment URL. A stripe customer is created on first use and its
// id pinned to the account so webhook events can find their way back.
func (s *Service) CreateSubscription(ctx context.Context, email, productID string) (string, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account.Role == models.RoleOwner {
		return "", apperr.PreconditionFailed("User already has a subscription")
	}
	if account.Role == models.RoleUser {
		return "", apperr.PreconditionFailed("User is part of a team")
	}

	product, err := s.productByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if product.Custom && !product.AvailableTo(account.ID.String()) {
		return "", apperr.PreconditionFailed("Product is not available for this user")
	}

	if account.StripeCustomerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(account.Email),
			Name:  stripe.String(account.Name),
		})
		if err != nil {
			return "", apperr.Internal("Something went wrong", err)
		}
		account.StripeCustomerID = cust.ID
		if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
			return "", apperr.Internal("Something went wrong", err)
		}
	}

	sess, err := session.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(account.StripeCustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(product.Stripe.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	})
	if err != nil {
		return "", apperr.Internal("Something went wrong", err)
	}
	return sess.URL, nil
}

// ChangeSubscription swaps the live subscription's price item. The new limits
// only land on the account once stripe confirms through the webhook.
func (s *Service) ChangeSubscription(ctx context.Context, email, productID string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Role != models.RoleOwner {
		return apperr.PreconditionFailed("User has no subscription")
	}
	if account.FreeSubscription {
		return apperr.PreconditionFailed("Free subscriptions cannot be changed")
	}

	product, err := s.productByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Custom && !product.AvailableTo(account.ID.String()) {
		return apperr.PreconditionFailed("Product is not available for this user")
	}
	if account.ProductID == productID {
		return apperr.PreconditionFailed("Already subscribed to this product")
	}

	sub, err := subscription.Get(account.StripeSubscriptionID, nil)
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if len(sub.Items.Data) == 0 {
		return apperr.Internal("Something went wrong", nil)
	}

	_, err = subscription.Update(sub.ID, &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(sub.Items.Data[0].ID),
				Price: stripe.String(product.Stripe.PriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	})
	if err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// CancelSubscription ends the subscription and tears down the team. Free
// subscriptions have nothing to cancel at stripe and are torn down directly.
func (s *Service) CancelSubscription(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Role != models.RoleOwner {
		return apperr.PreconditionFailed("User has no subscription")
	}

	if !account.FreeSubscription {
		if _, err := subscription.Cancel(account.StripeSubscriptionID, nil); err != nil {
			return apperr.Internal("Something went wrong", err)
		}
	}
	return s.accounts.RemoveSubscriptionFromUser(ctx, account.ID.String())
}

// CreateSubscriptionForAdmin grants a plan without payment. The account is
// promoted to owner with the product's limits and flagged as a free
// subscription so cancellation skips stripe.
func (s *Service) CreateSubscriptionForAdmin(ctx context.Context, email, productID string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Role != models.RoleNone {
		return apperr.PreconditionFailed("User already has a subscription")
	}

	product, err := s.productByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.Custom && !product.AvailableTo(account.ID.String()) {
		product.AvailableToUsers = append(product.AvailableToUsers, account.ID.String())
		if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
			return apperr.Internal("Something went wrong", err)
		}
	}

	account.FreeSubscription = true
	applyPlan(account, product)
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	return nil
}

// HandleWebhook verifies and applies a stripe event. Subscription create and
// update events promote the customer to owner with the plan's limits and
// reset the usage counter; delete events tear the subscription down.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.endpointSecret)
	if err != nil {
		return apperr.Unauthorized("Invalid webhook signature")
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.applySubscriptionEvent(ctx, event)
	case "customer.subscription.deleted":
		return s.removeSubscriptionEvent(ctx, event)
	default:
		s.logger.Debug("ignoring stripe event", "type", event.Type)
		return nil
	}
}

func (s *Service) applySubscriptionEvent(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return apperr.Internal("Something went wrong", err)
	}
	if sub.Status != stripe.SubscriptionStatusActive && sub.Status != stripe.SubscriptionStatusTrialing {
		s.logger.Info("ignoring subscription event", "status", sub.Status, "subscription", sub.ID)
		return nil
	}
	if len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return apperr.Internal("Something went wrong", nil)
	}

	account, err := s.accounts.GetByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		return err
	}
	product, err := s.productByPriceID(ctx, sub.Items.Data[0].Price.ID)
	if err != nil {
		return err
	}

	account.StripeSubscriptionID = sub.ID
	applyPlan(account, product)
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	s.logger.Info("subscription applied", "account", account.Email, "product", product.Name)
	return nil
}

func (s *Service) removeSubscriptionEvent(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return apperr.Internal("Something went wrong", err)
	}

	account, err := s.accounts.GetByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		// Cancellation through the API already tore the account down.
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if account.Role != models.RoleOwner {
		return nil
	}
	return s.accounts.RemoveSubscriptionFromUser(ctx, account.ID.String())
}

// applyPlan promotes the account to owner and installs the plan limits.
// Usage restarts at zero; the team list survives plan changes.
func applyPlan(account *models.Account, product *models.Product) {
	account.Role = models.RoleOwner
	account.ProductID = product.ID.String()
	account.AccountDetails.AllowedCredits = product.AllowedCredits
	account.AccountDetails.UsedCredits = 0
	account.AccountDetails.AllowedTeamMembers = product.AllowedTeamMembers
	account.AccountDetails.AllowedAssistants = product.AllowedAssistants
	if account.AccountDetails.TeamMembers == nil {
		account.AccountDetails.TeamMembers = []string{}
	}
}
