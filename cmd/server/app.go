package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/config"
	"github.com/diewo77/go-recipes/internal/handlers"
	"github.com/diewo77/go-recipes/internal/metrics"
	"github.com/diewo77/go-recipes/internal/policy"
)

// App is the main application handler that sets up all routes.
type App struct {
	router    *chi.Mux
	cfg       *config.Config
	routerCfg *policy.RouterConfig
	log       *slog.Logger
}

// crudHandler is served by every owned resource handler.
type crudHandler interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// NewApp creates a new application with all routes configured.
func NewApp(cfg *config.Config, routerCfg *policy.RouterConfig, log *slog.Logger) *App {
	app := &App{
		router:    chi.NewRouter(),
		cfg:       cfg,
		routerCfg: routerCfg,
		log:       log,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	r := a.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withLogging(a.log))
	r.Use(withRecover(a.log))
	r.Use(metrics.Middleware)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Ops endpoints
	hh := a.routerCfg.HealthHandler
	r.Get("/health", hh.Health)
	r.Get("/healthz", hh.Healthz)
	r.Handle("/metrics", metrics.Handler())

	if prefix := a.cfg.Server.APIPrefix; prefix != "" {
		r.Route(prefix, a.apiRoutes)
	} else {
		r.Group(a.apiRoutes)
	}
}

// apiRoutes registers the JSON API. Every route resolves the token when one
// is sent; all but registration and token issuance require it.
func (a *App) apiRoutes(r chi.Router) {
	rc := a.routerCfg
	uh := rc.UserHandler

	r.Use(rc.Authenticator.Middleware)

	r.Post("/user/create", uh.Create)
	r.Post("/user/token", uh.Token)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Post("/user/token/invalidate", uh.InvalidateToken)
		r.Get("/user/me", uh.Me)
		r.Put("/user/me", uh.UpdateMe)
		r.Patch("/user/me", uh.UpdateMe)

		a.ownedRoutes(r, "/recipe/tags", policy.ResourceTag, rc.TagHandler)
		a.ownedRoutes(r, "/recipe/ingredients", policy.ResourceIngredient, rc.IngredientHandler)
		a.ownedRoutes(r, "/recipe/recipes", policy.ResourceRecipe, rc.RecipeHandler)

		auh := rc.AdminUserHandler
		r.Route("/admin/users", func(r chi.Router) {
			r.With(a.requireResource(policy.ResourceUser, true)).Get("/", auh.List)
			r.With(a.requireResource(policy.ResourceUser, true)).Post("/", auh.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(a.requireResource(policy.ResourceUser, false))
				r.Get("/", auh.Get)
				r.Patch("/", auh.Update)
				r.Delete("/", auh.Delete)
			})
		})
	})
}

// ownedRoutes mounts the collection and item routes of a per-user resource.
func (a *App) ownedRoutes(r chi.Router, pattern, resource string, h crudHandler) {
	r.Route(pattern, func(r chi.Router) {
		r.With(a.requireResource(resource, true)).Get("/", h.List)
		r.With(a.requireResource(resource, true)).Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(a.requireResource(resource, false))
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// requireResource wraps a handler to require the profile permission for the
// request method.
func (a *App) requireResource(resourceType string, collection bool) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequireResource(resourceType, collection)
}

// withLogging logs one line per request once the handler returns.
func withLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			log.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// withRecover turns a panic into a 500 JSON response.
func withRecover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				httpx.JSONError(w, http.StatusInternalServerError, string(apperr.CodeInternal), "internal server error", nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
