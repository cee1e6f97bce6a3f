package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"eventflow/internal/auth/oauth"
	"eventflow/internal/http/middleware"
	"eventflow/internal/service"
)

// Services bundles the application services the routes dispatch to.
type Services struct {
	Auth          service.AuthService
	Communities   service.CommunityService
	Events        service.EventService
	Subscriptions service.SubscriptionService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; every rule lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, jwtSecret []byte, authn *oauth.Authenticator, store OAuthStore, svcs Services) {
	authRequired := middleware.Auth(jwtSecret)

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Auth
	app.Post("/auth/register", Register(svcs.Auth))
	app.Post("/auth/login", Login(svcs.Auth))
	app.Get("/auth/verify", VerifyEmail(svcs.Auth))
	app.Post("/auth/code", RedeemLoginCode(store))
	app.Get("/auth/:provider/login", OAuthLogin(authn, store))
	app.Get("/auth/:provider/callback", OAuthCallback(authn, store, svcs.Auth))
	app.Get("/auth/:provider/link", authRequired, OAuthLink(authn, store))

	// Profile
	app.Get("/me", authRequired, Me(svcs.Auth))
	app.Delete("/me/accounts/:provider", authRequired, UnlinkAccount(svcs.Auth))

	// Communities
	app.Get("/communities", ListCommunities(svcs.Communities))
	app.Post("/communities", authRequired, CreateCommunity(svcs.Communities))
	app.Get("/communities/:id", GetCommunity(svcs.Communities))
	app.Patch("/communities/:id", authRequired, UpdateCommunity(svcs.Communities))
	app.Delete("/communities/:id", authRequired, DeleteCommunity(svcs.Communities))
	app.Post("/communities/:id/join", authRequired, JoinCommunity(svcs.Communities))
	app.Post("/communities/:id/leave", authRequired, LeaveCommunity(svcs.Communities))
	app.Get("/communities/:id/members", ListMembers(svcs.Communities))
	app.Put("/communities/:id/admins/:userID", authRequired, SetAdminRole(svcs.Communities))
	app.Delete("/communities/:id/admins/:userID", authRequired, RemoveAdmin(svcs.Communities))
	app.Post("/communities/:id/cover", authRequired, UploadCommunityCover(svcs.Communities))
	app.Get("/communities/:id/cover", GetCommunityCover(svcs.Communities))

	// Events
	app.Get("/communities/:id/events", ListEvents(svcs.Events))
	app.Post("/communities/:id/events", authRequired, CreateEvent(svcs.Events))
	app.Get("/events/:id", GetEvent(svcs.Events))
	app.Patch("/events/:id", authRequired, UpdateEvent(svcs.Events))
	app.Delete("/events/:id", authRequired, DeleteEvent(svcs.Events))
	app.Post("/events/:id/cover", authRequired, UploadEventCover(svcs.Events))
	app.Get("/events/:id/cover", GetEventCover(svcs.Events))

	// Subscriptions
	app.Get("/subscription", authRequired, GetSubscription(svcs.Subscriptions))
	app.Post("/subscription/checkout", authRequired, Checkout(svcs.Subscriptions))
	app.Delete("/subscription", authRequired, CancelSubscription(svcs.Subscriptions))
	app.Get("/subscription/payments", authRequired, ListPayments(svcs.Subscriptions))
	app.Post("/subscription/requests", authRequired, RequestComplimentary(svcs.Subscriptions))
	app.Get("/subscription/requests", authRequired, ListSubscriptionRequests(svcs.Subscriptions))
	app.Post("/subscription/requests/:id/approve", authRequired, ApproveRequest(svcs.Subscriptions))
	app.Post("/subscription/requests/:id/reject", authRequired, RejectRequest(svcs.Subscriptions))
}
