package main

import (
	"context"
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/storage/fixture"
	"github.com/xenking/shopcart/internal/storage/postgres"
)

type config struct {
	DatabaseURL    string `usage:"PostgreSQL connection URL (or DATABASE_URL)" flag:"database-url"`
	FixturePath    string `default:"db/seed/catalog.json" usage:"Fixture file (.json or .json.gz)" flag:"fixture"`
	PasswordPepper string `default:"shopcart-dev" usage:"HMAC pepper for password hashes" flag:"password-pepper"`
}

func loadConfig(args []string) (*config, error) {
	var cfg config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STUB",
		Args:      args,
		SkipFiles: true,
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set --database-url or DATABASE_URL")
	}
	return &cfg, nil
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := loadConfig(os.Args[1:])
		if err != nil {
			return err
		}
		return run(ctx, lg, cfg)
	})
}

func run(ctx context.Context, lg *zap.Logger, cfg *config) error {
	pepper := []byte(cfg.PasswordPepper)

	lg.Info("Reading fixture", zap.String("path", cfg.FixturePath))
	data, err := fixture.Load(cfg.FixturePath, pepper)
	if err != nil {
		return err
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := postgres.Seed(ctx, pool, data.Games, data.Accounts); err != nil {
		return errors.Wrap(err, "seed")
	}
	lg.Info("Seed completed",
		zap.Int("games", len(data.Games)),
		zap.Int("users", len(data.Accounts)),
	)
	return nil
}
