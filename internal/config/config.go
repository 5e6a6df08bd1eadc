package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type (
	Container struct {
		App       *App
		Token     *Token
		DB        *DB
		HTTP      *HTTP
		Redis     *Redis
		Backend   *Backend
		MQ        *MQ
		Tracing   *Tracing
		Workspace *Workspace
	}

	App struct {
		Name string `envconfig:"NAME" default:"motorent-storefront"`
		Env  string `envconfig:"ENV" default:"development"`
	}

	// Token signs the visitor cookie.
	Token struct {
		Secret   string        `envconfig:"SECRET" required:"true"`
		Duration time.Duration `envconfig:"DURATION" default:"720h"`
	}

	DB struct {
		Host           string `envconfig:"HOST" default:"localhost"`
		Port           string `envconfig:"PORT" default:"5432"`
		User           string `envconfig:"USER" default:"postgres"`
		Password       string `envconfig:"PASSWORD"`
		Name           string `envconfig:"NAME" default:"storefront"`
		MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"./internal/adapter/postgres/migrations"`
	}

	HTTP struct {
		Env            string `ignored:"true"`
		Port           string `envconfig:"PORT" default:"8080"`
		AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
		URL            string `envconfig:"URL"`
		CookieDomain   string `envconfig:"COOKIE_DOMAIN"`
	}

	Redis struct {
		Address    string        `envconfig:"ADDRESS" default:"localhost:6379"`
		Password   string        `envconfig:"PASSWORD"`
		DB         int           `envconfig:"DB" default:"0"`
		CatalogTTL time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	}

	// Backend is the rental REST API the storefront talks to.
	Backend struct {
		Host     string        `envconfig:"HOST" default:"localhost:5000"`
		BasePath string        `envconfig:"BASE_PATH" default:"/api"`
		Scheme   string        `envconfig:"SCHEME" default:"http"`
		Timeout  time.Duration `envconfig:"TIMEOUT" default:"15s"`
	}

	// MQ is optional; booking events are dropped when URL is empty.
	MQ struct {
		URL      string `envconfig:"URL"`
		Exchange string `envconfig:"EXCHANGE" default:"motorent.bookings"`
	}

	// Tracing is optional; spans are not exported when Endpoint is empty.
	Tracing struct {
		Endpoint string `envconfig:"ENDPOINT"`
	}

	Workspace struct {
		IdleTTL       time.Duration `envconfig:"IDLE_TTL" default:"30m"`
		SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is fine outside production
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return Load()
}

// Load reads every section from the environment.
func Load() (*Container, error) {
	c := &Container{
		App:       &App{},
		Token:     &Token{},
		DB:        &DB{},
		HTTP:      &HTTP{},
		Redis:     &Redis{},
		Backend:   &Backend{},
		MQ:        &MQ{},
		Tracing:   &Tracing{},
		Workspace: &Workspace{},
	}

	sections := []struct {
		prefix string
		target interface{}
	}{
		{"APP", c.App},
		{"TOKEN", c.Token},
		{"DB", c.DB},
		{"HTTP", c.HTTP},
		{"REDIS", c.Redis},
		{"BACKEND", c.Backend},
		{"MQ", c.MQ},
		{"OTEL", c.Tracing},
		{"WORKSPACE", c.Workspace},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("config %s: %w", s.prefix, err)
		}
	}
	c.HTTP.Env = c.App.Env

	if c.App.Env == "production" && len(c.Token.Secret) < 32 {
		return nil, errors.New("config TOKEN: secret must be at least 32 characters in production")
	}
	return c, nil
}

func (h *HTTP) ListenAddr() string {
	return fmt.Sprintf("%s:%s", h.URL, h.Port)
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}
