// Package server wires and runs the catalog stub backend.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
	"github.com/xenking/shopcart/internal/handler"
	"github.com/xenking/shopcart/internal/storage/fixture"
	"github.com/xenking/shopcart/internal/storage/postgres"
	"github.com/xenking/shopcart/pkg/health"
	"github.com/xenking/shopcart/pkg/httpmiddleware"
)

// Store is what the stub serves from.
type Store interface {
	game.Repository
	user.Repository
	health.Pinger
}

// OpenStore returns the PostgreSQL store when a database URL is configured,
// the fixture store otherwise. The returned func releases it.
func OpenStore(ctx context.Context, lg *zap.Logger, cfg *Config) (Store, func(), error) {
	pepper := []byte(cfg.PasswordPepper)

	if cfg.DatabaseURL == "" {
		data, err := fixture.Load(cfg.FixturePath, pepper)
		if err != nil {
			return nil, nil, errors.Wrap(err, "load fixture")
		}
		lg.Info("Serving fixture",
			zap.String("path", cfg.FixturePath),
			zap.Int("games", len(data.Games)),
			zap.Int("users", len(data.Accounts)),
		)
		return fixture.NewStore(data, pepper), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "run migrations")
	}
	lg.Info("Serving PostgreSQL store")
	return postgres.NewStore(pool, pepper), pool.Close, nil
}

// NewHandler builds the routed and instrumented stub handler.
func NewHandler(lg *zap.Logger, tp trace.TracerProvider, mp metric.MeterProvider, store Store, hs *health.Health) http.Handler {
	r := chi.NewRouter()
	r.Get("/livez", hs.LiveEndpoint)
	r.Get("/readyz", hs.ReadyEndpoint)
	handler.New(store, store).Routes(r)

	return httpmiddleware.Wrap(r,
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.Instrument("catalog-stub", tp, mp),
		httpmiddleware.LogRequests(),
	)
}

// Run serves the stub until ctx is canceled, then drains and shuts down.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	store, release, err := OpenStore(ctx, lg, cfg)
	if err != nil {
		return err
	}
	defer release()

	hs := health.New()
	hs.AddReadinessCheck("store", 5*time.Second, health.PingCheck("store", store))
	hs.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	hs.AddLivenessCheck("gc", time.Second, health.GCMaxPauseCheck(time.Second))
	hs.Start(ctx, 10*time.Second)
	hs.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           NewHandler(lg, m.TracerProvider(), m.MeterProvider(), store, hs),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		hs.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		hs.Stop()
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
