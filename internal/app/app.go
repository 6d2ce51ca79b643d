// Package app wires and runs the shopcart client.
package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/fetch"
	"github.com/xenking/shopcart/internal/transport"
)

// Run performs one client session against the configured service, printing
// to out. It returns an error when any remote operation failed.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, out io.Writer) error {
	lg.Info("Initializing", zap.String("base_url", cfg.BaseURL), zap.Ints("games", cfg.Games))

	client := transport.New(cfg.Transport(),
		transport.WithTracerProvider(m.TracerProvider()),
		transport.WithMeterProvider(m.MeterProvider()),
	)

	pool := fetch.NewPool(cfg.Workers, cfg.Queue)
	defer func() {
		if err := pool.Close(); err != nil {
			lg.Warn("Close worker pool", zap.Error(err))
		}
	}()

	remote, err := fetch.New(client, pool, cfg.Endpoints(),
		fetch.WithLogger(lg),
		fetch.WithTracerProvider(m.TracerProvider()),
		fetch.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create orchestrator")
	}

	render, err := NewRenderer(out, cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}

	return Shop(ctx, remote, render, lg, cfg.Plan())
}

// Shop runs plan on a fresh session and blocks until it ends or ctx is
// done. A run cut short by ctx returns the context error.
func Shop(ctx context.Context, remote Remote, render *Renderer, lg *zap.Logger, plan Plan) error {
	loop := fetch.NewLoop()
	session := NewSession()
	s := NewShopper(remote, loop, session, render, lg, plan)
	s.Start(ctx)

	if err := loop.Run(ctx); err != nil {
		lg.Warn("Shopping interrupted",
			zap.Error(err),
			zap.Int("cart_entries", session.Cart.Count()),
		)
		return errors.Wrap(err, "interrupted")
	}
	return s.Err()
}
