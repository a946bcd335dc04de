// Package httpapi implements the REST control API for managing and
// evaluating stored chances.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/solatis/chancekeeper/internal/core/db"
	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ChanceService is the service layer the API depends on. *api.ChanceService
// implements it.
type ChanceService interface {
	Put(ctx context.Context, name string, c *rules.Chance) (*db.StoredChance, error)
	Get(ctx context.Context, name string) (*db.StoredChance, error)
	List(ctx context.Context) ([]*db.StoredChance, error)
	Delete(ctx context.Context, name string) error
	Evaluate(ctx context.Context, name string, evalCtx types.Context) (rules.Result, error)
}

// API holds the router and its dependencies.
type API struct {
	// Router is the Chi multiplexer that handles HTTP requests.
	Router *chi.Mux

	chances ChanceService
	log     zerolog.Logger
	timeout time.Duration
}

// New creates the API and registers its routes. Panics if chances is nil.
func New(chances ChanceService, log zerolog.Logger, timeout time.Duration) *API {
	if chances == nil {
		panic("httpapi: chance service cannot be nil")
	}

	a := &API{
		Router:  chi.NewRouter(),
		chances: chances,
		log:     log,
		timeout: timeout,
	}
	a.configureRoutes()
	return a
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Router.ServeHTTP(w, r)
}

func (a *API) configureRoutes() {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(RequestLogger(a.log))
	a.Router.Use(Metrics)
	a.Router.Use(middleware.Recoverer)

	a.Router.Get("/health", a.handleHealthCheck)
	a.Router.Handle("/metrics", promhttp.Handler())

	a.Router.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if a.timeout > 0 {
			r.Use(middleware.Timeout(a.timeout))
		}

		r.Route("/chances", func(r chi.Router) {
			r.Get("/", a.handleListChances)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", a.handleGetChance)
				r.Put("/", a.handlePutChance)
				r.Delete("/", a.handleDeleteChance)
				r.Post("/factor", a.handleFactor)
			})
		})
	})
}

func (a *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
