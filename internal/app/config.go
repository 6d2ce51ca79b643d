package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/xenking/shopcart/internal/fetch"
	"github.com/xenking/shopcart/internal/transport"
)

// Config holds the shopcart client configuration, loadable from environment
// variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	BaseURL        string        `default:"http://10.0.2.2:8080" usage:"Remote service base URL" flag:"base-url"`
	Paths          PathsConfig
	ConnectTimeout time.Duration `default:"10s" usage:"Connect timeout per request" flag:"connect-timeout"`
	ReadTimeout    time.Duration `default:"10s" usage:"Read timeout per request" flag:"read-timeout"`
	MaxBodyBytes   int64         `default:"33554432" usage:"Largest accepted response body" flag:"max-body-bytes"`
	Workers        int           `default:"4" usage:"Fetch worker count"`
	Queue          int           `default:"16" usage:"Fetch queue depth"`

	Username string `usage:"Sign in as this user before browsing"`
	Password string `usage:"Password for --username"`
	Address  string `usage:"After signing in, store this address on the profile"`
	Games    []int  `usage:"Videogame ids to add to the cart, in order"`

	Locale   string `default:"es-PE" usage:"Display locale"`
	Currency string `default:"PEN" usage:"Display currency (ISO 4217)"`
}

// PathsConfig holds the endpoint paths relative to BaseURL.
type PathsConfig struct {
	Catalog string `default:"/api/videogame/findCatalog"`
	Detail  string `default:"/api/videogame/findById/"`
	Login   string `default:"/api/auth/profile"`
	Update  string `default:"/api/user/update"`
}

// LoadConfig reads .env (when present), then environment, YAML and the
// command-line args.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Args:      args,
		Files:     []string{"shopcart.yaml", "/etc/shopcart/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required: set SHOP_BASE_URL")
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Username != "" && c.Password == "" {
		return errors.New("password is required when a username is set")
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return errors.Wrapf(err, "parse locale %q", c.Locale)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return errors.Wrapf(err, "parse currency %q", c.Currency)
	}
	return nil
}

// Transport returns the transport client settings.
func (c *Config) Transport() transport.Config {
	return transport.Config{
		ConnectTimeout: c.ConnectTimeout,
		ReadTimeout:    c.ReadTimeout,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}

// Endpoints returns the remote operation URLs.
func (c *Config) Endpoints() fetch.Endpoints {
	return fetch.Endpoints{
		BaseURL:     c.BaseURL,
		CatalogPath: c.Paths.Catalog,
		DetailPath:  c.Paths.Detail,
		LoginPath:   c.Paths.Login,
		UpdatePath:  c.Paths.Update,
	}
}
