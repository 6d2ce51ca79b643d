package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/server"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := server.LoadConfig(os.Args[1:])
		if err != nil {
			return err
		}
		return server.Run(ctx, lg, m, cfg)
	})
}
