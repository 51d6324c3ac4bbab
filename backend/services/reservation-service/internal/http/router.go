package httpserver

import (
	"net/http"

	"ecocharge/backend/services/reservation-service/internal/http/handlers"
	"ecocharge/backend/services/reservation-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	StationsHandlers *handlers.StationsHandlers
	BookingsHandler  *handlers.BookingsHandler
	ReviewsHandlers  *handlers.ReviewsHandlers
	AuthHandlers     *handlers.AuthHandlers
	AdminHandlers    *handlers.AdminHandlers
	HealthHandler    http.HandlerFunc
	AdminFeed        http.Handler

	Authenticate func(http.Handler) http.Handler
	RateLimit    func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware. Method mismatches are answered with 405 by the mux.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Authenticate)
	}
	limited := func(handler http.Handler) http.Handler {
		if deps.RateLimit == nil {
			return handler
		}
		return middleware.Chain(handler, deps.RateLimit)
	}
	// Authenticated first so the limiter can key by user id.
	authLimited := func(handler http.HandlerFunc) http.Handler {
		if deps.RateLimit == nil {
			return authenticated(handler)
		}
		return middleware.Chain(handler, deps.Authenticate, deps.RateLimit)
	}

	mux.Handle("GET /health", deps.HealthHandler)

	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(deps.AuthHandlers.Register)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(deps.AuthHandlers.Login)))
	mux.Handle("GET /api/me", authenticated(deps.AuthHandlers.Me))
	mux.Handle("PATCH /api/me", authenticated(deps.AuthHandlers.UpdateMe))

	mux.HandleFunc("GET /api/stations", deps.StationsHandlers.List)
	mux.HandleFunc("GET /api/stations/filters", deps.StationsHandlers.Filters)
	mux.HandleFunc("GET /api/stations/{id}", deps.StationsHandlers.Get)
	mux.HandleFunc("GET /api/stations/{id}/quote", deps.StationsHandlers.Quote)
	mux.HandleFunc("GET /api/stations/{id}/reviews", deps.ReviewsHandlers.List)
	mux.Handle("POST /api/stations/{id}/bookings", authLimited(deps.BookingsHandler.Create))
	mux.Handle("POST /api/stations/{id}/reviews", authLimited(deps.ReviewsHandlers.Create))

	mux.Handle("GET /api/admin/stats", authenticated(deps.AdminHandlers.Stats))
	mux.Handle("GET /api/admin/bookings", authenticated(deps.AdminHandlers.Bookings))
	mux.Handle("POST /api/admin/stations", authenticated(deps.AdminHandlers.AddStation))
	mux.Handle("DELETE /api/admin/stations/{id}", authenticated(deps.AdminHandlers.DeleteStation))
	mux.Handle("POST /api/admin/stations/{id}/toggle", authenticated(deps.AdminHandlers.ToggleStation))
	mux.Handle("POST /api/admin/stations/{id}/connectors/{type}", authenticated(deps.AdminHandlers.SetConnector))

	if deps.AdminFeed != nil {
		mux.Handle("GET /ws/admin", deps.AdminFeed)
	}

	return mux
}
