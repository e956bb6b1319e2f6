package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/susu3304/partybot/internal/config"
	"github.com/susu3304/partybot/internal/party"
)

// Sessions is the read-only view of the bot served by the API.
type Sessions interface {
	Summaries(ctx context.Context) ([]party.Summary, error)
}

type API struct {
	router   *mux.Router
	sessions Sessions
	config   *config.Config
	server   *http.Server
}

func New(cfg *config.Config, sessions Sessions) *API {
	api := &API{
		router:   mux.NewRouter(),
		sessions: sessions,
		config:   cfg,
	}

	api.setupRoutes()
	api.server = &http.Server{
		Addr:              cfg.WebBind,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api
}

func (a *API) setupRoutes() {
	// Keep-alive endpoints
	a.router.HandleFunc("/", a.handleAlive).Methods("GET", "HEAD")
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")

	// Read-only session status
	a.router.HandleFunc("/api/sessions", a.handleListSessions).Methods("GET")
	a.router.HandleFunc("/api/sessions/{id}", a.handleGetSession).Methods("GET")
}

func (a *API) Handler() http.Handler {
	// Read-only and unauthenticated, so any origin may read it.
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}
	return cors.New(corsOptions).Handler(a.router)
}

// Start serves until Shutdown is called.
func (a *API) Start() error {
	log.Printf("API server listening on http://%s", a.config.WebBind)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
