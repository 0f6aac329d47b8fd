package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chargeshare/internal/http/handlers"
	"chargeshare/internal/http/middleware"
)

// RouterDeps collects handler groups and middleware for route wiring.
type RouterDeps struct {
	Auth     *handlers.AuthHandlers
	Users    *handlers.UserHandlers
	Stations *handlers.StationHandlers
	Sessions *handlers.SessionHandlers
	Reviews  *handlers.ReviewHandlers
	Admin    *handlers.AdminHandlers

	StationFeed http.HandlerFunc
	Health      http.HandlerFunc

	AuthMiddleware  func(http.Handler) http.Handler
	AdminMiddleware func(http.Handler) http.Handler
}

// NewRouter wires all HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, deps.AuthMiddleware)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, deps.AdminMiddleware)
	}

	mux.Handle("POST /auth/register", http.HandlerFunc(deps.Auth.Register))
	mux.Handle("POST /auth/login", http.HandlerFunc(deps.Auth.Login))

	mux.Handle("GET /stations", http.HandlerFunc(deps.Stations.List))
	mux.Handle("POST /stations", authed(deps.Stations.Create))
	mux.Handle("PUT /stations", authed(deps.Stations.Update))
	mux.Handle("DELETE /stations", authed(deps.Stations.Delete))
	mux.Handle("POST /stations/{id}/reviews", authed(deps.Reviews.Append))

	mux.Handle("GET /users/profile", authed(deps.Users.Profile))
	mux.Handle("PATCH /users/profile", authed(deps.Users.UpdateProfile))
	mux.Handle("PATCH /users/minutes", authed(deps.Users.AdjustMinutes))

	mux.Handle("POST /charging-sessions", authed(deps.Sessions.Start))
	mux.Handle("PATCH /charging-sessions", authed(deps.Sessions.Stop))
	mux.Handle("GET /charging-sessions/me", authed(deps.Sessions.Me))

	mux.Handle("POST /admin/login", http.HandlerFunc(deps.Admin.Login))
	mux.Handle("GET /admin/data", adminOnly(deps.Admin.Data))
	mux.Handle("GET /admin/users", adminOnly(deps.Admin.Users))
	mux.Handle("PATCH /admin/users/{id}", adminOnly(deps.Admin.UpdateUser))
	mux.Handle("DELETE /admin/users/{id}", adminOnly(deps.Admin.DeleteUser))
	mux.Handle("GET /admin/charging-sessions", adminOnly(deps.Sessions.Active))

	mux.Handle("GET /ws/stations", deps.StationFeed)
	mux.Handle("GET /health", deps.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Metrics(mux)
}
