package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, store, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application, opts Options) (*Application, error) {
	deps, err := BuildDependencies(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

func (a *Application) Router() http.Handler {
	return a.router
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run serves HTTP until ctx is done, then shuts the server down and releases
// the store and background work.
func (a *Application) Run(ctx context.Context) error {
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

func (a *Application) Close() {
	a.deps.Close()
}
