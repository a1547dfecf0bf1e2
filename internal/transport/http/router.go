package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"socialgraph/internal/handler"
	"socialgraph/internal/httputil"
	authmw "socialgraph/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler         *handler.UserHandler
	RelationshipHandler *handler.RelationshipHandler
	QueryHandler        *handler.QueryHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public user endpoints with optional authentication. A signed-in
	// viewer gets relationship annotations and block filtering on listings.
	r.Route("/users", func(r chi.Router) {
		// Profile creation has no auth; this service does not issue tokens.
		r.Post("/", cfg.UserHandler.Create)

		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}", cfg.UserHandler.GetProfile)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/followers", cfg.QueryHandler.GetFollowers)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/following", cfg.QueryHandler.GetFollowing)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/friends", cfg.QueryHandler.GetFriends)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Follow graph
		r.Post("/users/{id}/follow", cfg.RelationshipHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.RelationshipHandler.Unfollow)
		r.Delete("/users/{id}/follower", cfg.RelationshipHandler.RemoveFollower)
		r.Post("/users/{id}/follow-request/accept", cfg.RelationshipHandler.AcceptFollowRequest)
		r.Post("/users/{id}/follow-request/decline", cfg.RelationshipHandler.DeclineFollowRequest)
		r.Delete("/users/{id}/follow-request", cfg.RelationshipHandler.CancelFollowRequest)

		// Friend graph
		r.Post("/users/{id}/friend-request", cfg.RelationshipHandler.SendFriendRequest)
		r.Post("/users/{id}/friend-request/accept", cfg.RelationshipHandler.AcceptFriendRequest)
		r.Post("/users/{id}/friend-request/decline", cfg.RelationshipHandler.DeclineFriendRequest)
		r.Delete("/users/{id}/friend-request", cfg.RelationshipHandler.CancelFriendRequest)
		r.Delete("/users/{id}/friend", cfg.RelationshipHandler.Unfriend)

		// Blocks
		r.Post("/users/{id}/block", cfg.RelationshipHandler.Block)
		r.Delete("/users/{id}/block", cfg.RelationshipHandler.Unblock)

		// Current user endpoints
		r.Get("/me/follow-requests", cfg.QueryHandler.GetFollowRequests)
		r.Get("/me/friend-requests", cfg.QueryHandler.GetFriendRequests)
		r.Patch("/me/privacy", cfg.UserHandler.SetPrivacy)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
		})
	})

	return r
}
