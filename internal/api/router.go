package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/accounts"
	"github.com/aiquanty/Quanty-Backend/internal/api/handlers"
	"github.com/aiquanty/Quanty-Backend/internal/api/middleware"
	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/billing"
	"github.com/aiquanty/Quanty-Backend/internal/storage"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Logger          *slog.Logger
	JWTService      *auth.JWTService
	AuthService     *auth.Service
	ResetService    *auth.PasswordResetService
	AccountsService *accounts.Service
	TeamService     *accounts.TeamService
	BillingService  *billing.Service
	Storage         *storage.Service
	Jobs            accounts.Enqueuer
	AllowedOrigins  []string
	RateLimitReqs   int
	RateLimitSecs   int
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	passwordHandler := handlers.NewPasswordHandler(cfg.ResetService)
	userHandler := handlers.NewUserHandler(cfg.AccountsService)
	teamHandler := handlers.NewTeamHandler(cfg.TeamService, cfg.AccountsService)
	billingHandler := handlers.NewBillingHandler(cfg.BillingService)
	adminHandler := handlers.NewAdminHandler(cfg.AccountsService)
	storageHandler := handlers.NewStorageHandler(cfg.AccountsService, cfg.Storage)
	mailHandler := handlers.NewMailHandler(cfg.Jobs)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/signin", authHandler.Signin)
		r.Post("/auth/admin/signin", authHandler.AdminSignin)
		r.Post("/auth/logout", authHandler.Logout)

		r.Post("/password/forgot", passwordHandler.Forgot)
		r.Post("/password/reset", passwordHandler.Reset)

		r.Get("/team/invitation", teamHandler.Invitation)

		r.Post("/mail/sendUserQuery", mailHandler.SendUserQuery)

		// Stripe calls back without a bearer token; the signature check
		// inside the handler is the authentication.
		r.Post("/payment/webhook", billingHandler.Webhook)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/user", func(r chi.Router) {
				r.Post("/createCollection", userHandler.CreateCollection)
				r.Post("/editCollectionName", userHandler.EditCollectionName)
				r.Post("/deleteCollection", userHandler.DeleteCollection)
				r.Get("/getCollectionsForUser", userHandler.GetCollectionsForUser)
				r.Post("/createAiProjectForFile", userHandler.CreateAiProjectForFile)
				r.Post("/createAiProjectForURL", userHandler.CreateAiProjectForURL)
				r.Post("/askQueryFromAi", userHandler.AskQueryFromAi)
				r.Get("/getUserProjects", userHandler.GetUserProjects)
				r.Get("/getUserAccess", userHandler.GetUserAccess)
				r.Post("/setUserAccessToCollections", userHandler.SetUserAccessToCollections)
				r.Get("/getLoggedInUser", userHandler.GetLoggedInUser)
				r.Post("/setUserProfileSettings", userHandler.SetUserProfileSettings)
				r.Get("/getTeamMemberDetails", userHandler.GetTeamMemberDetails)
				r.Get("/file", storageHandler.File)
				r.Get("/profileImage", storageHandler.ProfileImage)
			})

			r.Route("/team", func(r chi.Router) {
				r.Post("/invite", teamHandler.Invite)
				r.Post("/accept", teamHandler.Accept)
				r.Post("/removeMember", teamHandler.RemoveMember)
			})

			r.Route("/payment", func(r chi.Router) {
				r.Post("/createSubscription", billingHandler.CreateSubscription)
				r.Post("/changeSubscription", billingHandler.ChangeSubscription)
				r.Post("/cancelSubscription", billingHandler.CancelSubscription)
			})

			r.Get("/products", billingHandler.ListProducts)

			// Admin console
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/products", billingHandler.CreateProduct)
				r.Get("/admin/products", billingHandler.AllProducts)
				r.Post("/payment/createSubscriptionForAdmin", billingHandler.CreateSubscriptionForAdmin)
				r.Get("/admin/owners", adminHandler.Owners)
				r.Get("/admin/nonSubscribedUsers", adminHandler.NonSubscribedUsers)
				r.Post("/admin/ownerDetails", adminHandler.OwnerDetails)
			})
		})
	})

	return &Router{r}
}
