// Package server exposes the slot tool over HTTP: manual departures, slot times, airports,
// live arrivals with separation status and ground departures for one airport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server holds the collaborators shared by all handlers.
type Server struct {
	registry *internal.AirportRegistry
	feed     internal.FeedSource
	store    *internal.DepartureStore
	sessions *internal.OperatorSessions
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a server. A nil logger falls back to slog.Default.
func New(
	registry *internal.AirportRegistry,
	feed internal.FeedSource,
	store *internal.DepartureStore,
	sessions *internal.OperatorSessions,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		registry: registry,
		feed:     feed,
		store:    store,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(operatorCapability(s.sessions))

	r.Get("/health", s.handleHealth)

	r.Route("/atc", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/departures", s.handleListDepartures)
		r.Post("/departures", s.handleCreateDeparture)
		r.Get("/departures/callsign/{callsign}", s.handleFindDeparture)
		r.Put("/departures/{id}", s.handleUpdateDeparture)
		r.Delete("/departures/{id}", s.handleDeleteDeparture)

		r.Post("/slots/sync", s.handleSyncSlots)
		r.Get("/slots/{callsign}", s.handleFindSlot)
		r.Put("/slots/{callsign}/tobt", s.handleUpdateTOBT)

		r.Get("/airports", s.handleAirports)
		r.Get("/arrivals/{airportCode}", s.handleArrivals)
		r.Get("/vatsim-departures/{airportCode}", s.handleVatsimDepartures)
		r.Get("/all-departures/{airportCode}", s.handleAllDepartures)
	})

	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("listening", slog.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("run: shutdown: %w", err)
		}

		return nil
	})

	return group.Wait()
}
