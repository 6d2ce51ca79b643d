package server

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the catalog stub configuration, loadable from environment
// variables (STUB_ prefix), flags, or YAML config files.
type Config struct {
	Addr           string `default:"0.0.0.0:8080" usage:"Stub listen address"`
	DatabaseURL    string `usage:"PostgreSQL connection URL; the fixture store is used when empty" flag:"database-url"`
	FixturePath    string `default:"db/seed/catalog.json" usage:"Fixture file (.json or .json.gz) for the in-memory store" flag:"fixture"`
	PasswordPepper string `default:"shopcart-dev" usage:"HMAC pepper for password hashes" flag:"password-pepper"`
	Graceful       GracefulConfig
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig reads .env (when present), then environment, YAML and the
// command-line args.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STUB",
		Args:      args,
		Files:     []string{"catalog-stub.yaml", "/etc/shopcart/catalog-stub.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" && cfg.FixturePath == "" {
		return nil, errors.New("either STUB_DATABASE_URL or STUB_FIXTURE_PATH is required")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps DATABASE_URL and PORT onto the STUB_ settings.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
