package server

import (
	"context"
	"net/http"
	"time"

	"elysoir/storefront/internal/service"
	"elysoir/storefront/internal/session"
	"elysoir/storefront/internal/state"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Catalog is the data sync controller as seen by the HTTP layer.
type Catalog interface {
	Snapshot() *service.Snapshot
	Loading() bool
	Refresh(ctx context.Context) *service.Snapshot
	LastReport(ctx context.Context) (*state.SyncReport, error)
}

// Config holds the collaborators and runtime options of the HTTP server.
type Config struct {
	Address     string
	Catalog     Catalog
	Sessions    *session.Manager
	Proxy       http.Handler // nil disables the commerce proxy
	ProxyPrefix string
}

// New constructs the HTTP server with its middleware stack.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter mounts the storefront API.
func NewRouter(cfg Config) http.Handler {
	h := &handlers{catalog: cfg.Catalog, sessions: cfg.Sessions}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(RequestLogger)
	router.Use(chimw.Recoverer)

	router.Get("/healthz", h.health)

	router.Route("/api", func(r chi.Router) {
		r.Use(chimw.NoCache)

		r.Get("/catalog", h.catalogSnapshot)
		r.Post("/sync", h.sync)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(h.loadSession)

			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/home", h.navigateHome)
			r.Post("/filter", h.setFilter)
			r.Post("/products/{productID}", h.selectProduct)
			r.Post("/categories", h.selectCategory)
			r.Post("/articles/{articleID}", h.selectArticle)
			r.Post("/back", h.back)
			r.Post("/options", h.selectOption)
			r.Post("/cart", h.addToCart)
			r.Delete("/cart/{index}", h.removeFromCart)
			r.Post("/cart/open", h.openCart)
			r.Post("/cart/close", h.closeCart)
			r.Post("/checkout", h.beginCheckout)
			r.Get("/checkout/url", h.checkoutURL)
			r.Get("/concierge", h.transcript)
			r.Post("/concierge", h.ask)
		})
	})

	if cfg.Proxy != nil && cfg.ProxyPrefix != "" {
		router.Handle(cfg.ProxyPrefix+"/*", cfg.Proxy)
	}

	return router
}
