package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/shopcart/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig(os.Args[1:])
		if err != nil {
			return err
		}
		return appkg.Run(ctx, lg, m, cfg, os.Stdout)
	})
}
