package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"devdash-backend/interfaces/http/rest/handlers"
	"devdash-backend/interfaces/http/rest/middleware"
	"devdash-backend/pkg/auth"
)

// Router wires handlers and middleware into one http.Handler.
type Router struct {
	ideaMap   *handlers.IdeaMapHandler
	snippets  *handlers.SnippetHandler
	notes     *handlers.NoteHandler
	dashboard *handlers.DashboardHandler
	health    *handlers.HealthHandler

	verifier auth.Verifier
	origins  *middleware.Origins
	opts     RouterOptions
	logger   *zap.Logger
}

// RouterOptions switches the optional middleware on. A nil Limiter or
// Observer leaves that layer out.
type RouterOptions struct {
	Limiter        *middleware.IPRateLimiter
	Observer       middleware.HTTPObserver
	MetricsHandler http.Handler
}

func NewRouter(
	ideaMap *handlers.IdeaMapHandler,
	snippets *handlers.SnippetHandler,
	notes *handlers.NoteHandler,
	dashboard *handlers.DashboardHandler,
	health *handlers.HealthHandler,
	verifier auth.Verifier,
	origins *middleware.Origins,
	opts RouterOptions,
	logger *zap.Logger,
) *Router {
	return &Router{
		ideaMap:   ideaMap,
		snippets:  snippets,
		notes:     notes,
		dashboard: dashboard,
		health:    health,
		verifier:  verifier,
		origins:   origins,
		opts:      opts,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Observer != nil {
		router.Use(middleware.Metrics(rt.opts.Observer))
	}
	router.Use(middleware.CORS(rt.origins))

	router.Get("/health", rt.health.Health)
	router.Get("/ready", rt.health.Ready)
	if rt.opts.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.MetricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if rt.opts.Limiter != nil {
			r.Use(middleware.RateLimit(rt.opts.Limiter))
		}
		r.Use(middleware.OptionalAuth(rt.verifier, rt.logger))

		r.Route("/ideamap/sessions", rt.ideaMap.Routes)
		r.Route("/snippets", rt.snippets.Routes)
		r.Route("/notes", rt.notes.Routes)
		r.Get("/dashboard", rt.dashboard.GetSummary)
	})

	return router
}
