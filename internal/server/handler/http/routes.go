package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/plantcafe/internal/metrics"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/session"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups the page and API handlers mounted by NewRouter.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Plants  *PlantHandler
	Cafes   *CafeHandler
	Likes   *LikeHandler
	Render  *Renderer
}

// RouterDeps carries the cross-cutting pieces the router wires in.
type RouterDeps struct {
	Sessions *session.Manager
	Users    middleware.UserLoader
	// SearchLimiter throttles the catalog search API per client IP.
	SearchLimiter *middleware.RateLimiter
	DB            Pinger
	Logger        *zap.Logger
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRouter constructs the application handler.
//
// Routes:
//
//	GET  /                        → Plants.Home
//	GET  /signup, POST /signup    → Auth.SignupPage, Auth.Signup
//	GET  /login, POST /login      → Auth.LoginPage, Auth.Login
//	POST /logout                  → Auth.Logout
//	GET  /profile                 → Profile.Show
//	GET  /profile/edit, POST      → Profile.EditPage, Profile.Edit
//	GET  /plants, /plants/{id}    → Plants.List, Plants.Detail
//	GET  /cafes, /cafes/{id}      → Cafes.List, Cafes.Detail
//	GET  /cafes/add, POST         → Cafes.AddPage, Cafes.Add
//	GET  /cafes/{id}/edit, POST   → Cafes.EditPage, Cafes.Edit
//	GET  /api/likes               → Likes.Check
//	POST /api/like, /api/unlike   → Likes.Like, Likes.Unlike
//	POST /api/get-plant-list      → Plants.Search (rate limited)
//	GET  /healthz, /metrics       → liveness, Prometheus exposition
//
// Middleware chain for application routes (applied in order):
//  1. RequestID, RealIP (only with TrustProxy)
//  2. WithRequestLogging
//  3. Recoverer
//  4. Metrics
//  5. WithSession
//  6. CSRF
func NewRouter(h Handlers, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if deps.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.WithRequestLogging(deps.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/healthz", healthz(deps.DB))
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithSession(deps.Sessions, deps.Users, deps.Logger))
		r.Use(middleware.CSRF)

		r.NotFound(h.Render.NotFound)

		r.Get("/", h.Plants.Home)

		r.Get("/signup", h.Auth.SignupPage)
		r.Post("/signup", h.Auth.Signup)
		r.Get("/login", h.Auth.LoginPage)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		r.Get("/profile", h.Profile.Show)
		r.Get("/profile/edit", h.Profile.EditPage)
		r.Post("/profile/edit", h.Profile.Edit)

		r.Get("/plants", h.Plants.List)
		r.Get("/plants/{id}", h.Plants.Detail)

		r.Route("/cafes", func(r chi.Router) {
			r.Get("/", h.Cafes.List)
			r.Get("/add", h.Cafes.AddPage)
			r.Post("/add", h.Cafes.Add)
			r.Get("/{id}", h.Cafes.Detail)
			r.Get("/{id}/edit", h.Cafes.EditPage)
			r.Post("/{id}/edit", h.Cafes.Edit)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/likes", h.Likes.Check)
			r.Post("/like", h.Likes.Like)
			r.Post("/unlike", h.Likes.Unlike)
			r.With(deps.SearchLimiter.Handler).Post("/get-plant-list", h.Plants.Search)
		})
	})

	return r
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
