package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"trip-wizard-service/internal/domain"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds service configuration.
type Config struct {
	HTTP    HTTPConfig
	Store   StoreConfig
	Session SessionConfig
	Wizard  WizardConfig
	Pricing PricingConfig
	Geocode GeocodeConfig
	Log     LogConfig
}

type HTTPConfig struct {
	Port string
}

// StoreConfig selects the key-value backend for sessions and drafts.
type StoreConfig struct {
	Backend     string // memory | redis | sqlite | postgres
	RedisAddr   string `mapstructure:"redis_addr"`
	SqlitePath  string `mapstructure:"sqlite_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// WizardConfig lists the wizard kinds the service serves.
type WizardConfig struct {
	Kinds []string
}

type PricingConfig struct {
	RatePerKm float64 `mapstructure:"rate_per_km"`
}

// GeocodeConfig configures the OpenRouteService geocoder. An empty key
// selects the in-memory mock geocoder.
type GeocodeConfig struct {
	ORSAPIKey string `mapstructure:"ors_api_key"`
	Country   string
	// Places loaded into the mock geocoder or pre-warmed into the cache.
	SeedPath string `mapstructure:"seed_path"`
}

type LogConfig struct {
	File  string
	Level string
}

// Load reads .env, an optional TOML config file and TRIPWIZ_* environment
// overrides, in increasing precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	v := viper.New()

	v.SetDefault("http.port", "8080")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.sqlite_path", "data/wizard.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("session.ttl", 5*time.Minute)
	v.SetDefault("session.sweep_interval", 5*time.Minute)
	v.SetDefault("wizard.kinds", []string{"ride"})
	v.SetDefault("pricing.rate_per_km", 0.30)
	v.SetDefault("geocode.ors_api_key", "")
	v.SetDefault("geocode.country", "")
	v.SetDefault("geocode.seed_path", "data/seeds/places.json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	if path := os.Getenv("TRIPWIZ_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tripwiz")
	}

	v.SetEnvPrefix("TRIPWIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case "memory", "redis", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			return fmt.Errorf("config: store.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("config: session.sweep_interval must be positive")
	}
	if len(c.Wizard.Kinds) == 0 {
		return fmt.Errorf("config: wizard.kinds must list at least one kind")
	}
	for _, k := range c.Wizard.Kinds {
		if _, err := domain.ParseWizardKind(k); err != nil {
			return fmt.Errorf("config: wizard.kinds: %w", err)
		}
	}
	if c.Pricing.RatePerKm < 0 {
		return fmt.Errorf("config: pricing.rate_per_km must not be negative")
	}
	return nil
}

// WizardKinds returns the configured kinds. Load has already validated them.
func (c Config) WizardKinds() []domain.WizardKind {
	out := make([]domain.WizardKind, 0, len(c.Wizard.Kinds))
	for _, k := range c.Wizard.Kinds {
		out = append(out, domain.WizardKind(k))
	}
	return out
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
