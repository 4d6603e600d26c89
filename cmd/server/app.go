package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/api"
	apimiddleware "github.com/aaweaver-actuary/chess-training-sub000/internal/api/middleware"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/broadcast"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/config"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/scheduler"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/store"
)

// application bundles the process-wide dependencies. Everything is
// constructed once here and passed by handle; nothing hides behind a
// package-level singleton.
type application struct {
	config *config.Config
	logger *slog.Logger

	sessions       store.SessionStore
	scheduler      scheduler.Client
	broadcaster    *broadcast.Broadcaster
	sessionService review_session.SessionService
}

// newApplication wires the session-orchestration stack together.
func newApplication(cfg *config.Config, logger *slog.Logger) *application {
	sessions := store.NewMemorySessionStore(logger)
	schedulerClient := scheduler.NewHTTPClient(
		cfg.Scheduler.URL,
		cfg.Scheduler.RequestTimeout,
		logger,
	)
	broadcaster := broadcast.NewBroadcaster(logger)
	sessionService := review_session.NewSessionService(sessions, schedulerClient, broadcaster, logger)

	return &application{
		config:         cfg,
		logger:         logger,
		sessions:       sessions,
		scheduler:      schedulerClient,
		broadcaster:    broadcaster,
		sessionService: sessionService,
	}
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	watchHandler := api.NewWatchHandler(app.sessionService, app.broadcaster, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.StartSession)
		r.Post("/sessions/{id}/grade", sessionHandler.GradeCard)
		r.Get("/sessions/{id}/stats", sessionHandler.GetStats)
		r.Delete("/sessions/{id}", sessionHandler.EndSession)

		r.Get("/sessions/{id}/watch", watchHandler.Watch)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
