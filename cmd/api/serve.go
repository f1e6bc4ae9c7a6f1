package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/farmease/workmatch/docs"
	"github.com/farmease/workmatch/internal/application"
	"github.com/farmease/workmatch/internal/listing"
	"github.com/farmease/workmatch/internal/notification"
	"github.com/farmease/workmatch/internal/scheduler"
	mw "github.com/farmease/workmatch/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the sweep scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log

	// Periodic sweep
	sched := scheduler.New(log, a.rules.Location())
	sweepJob := scheduler.NewSweepJob(a.listings, a.cfg.RequestTimeout)
	if err := sched.AddJob(a.cfg.SweepSchedule, sweepJob); err != nil {
		return err
	}
	if a.cfg.SweepOnStart {
		if err := sched.RunNow(sweepJob); err != nil {
			log.Error().Err(err).Msg("Initial sweep failed")
		}
	}
	sched.Start()
	defer sched.Stop()

	return serve(ctx, log, ":"+a.cfg.Port, newRouter(a))
}

func newRouter(a *app) http.Handler {
	// Notification feature
	notificationHandler := notification.NewHandler(a.notifications)

	// Listing feature (fan-out injected)
	listingHandler := listing.NewHandler(a.listings)

	// Application feature
	applicationService := application.NewService(a.listingStore, a.rules, a.fanout, a.log)
	applicationHandler := application.NewHandler(applicationService, a.listings)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(a.log.With().Str("component", "http").Logger()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.ActorMiddleware)

		// Mount feature routers
		r.Mount("/works", listingHandler.Routes())
		r.Mount("/applications", applicationHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	return r
}

// serve runs the HTTP server until ctx is done, then shuts it down. It
// returns the listener error if the server stops on its own.
func serve(ctx context.Context, log zerolog.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}
