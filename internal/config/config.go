// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping used by LoadConfig:
	- Env vars are read using the prefix PLATFORM_
	- Keys are lowercased and the prefix removed
	- A double underscore marks nesting:
	  PLATFORM_SERVER__PORT -> server.port -> Config.Server.Port
	- A handful of legacy names from the first deployment (PORT,
	  ALLOWED_ORIGINS, FIREBASE_*) are accepted as aliases.
*/

// EnvPrefix is the prefix every application env var must carry.
const EnvPrefix = "PLATFORM_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "platform-api"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Firestore     FirestoreConfig      `koanf:"firestore"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Notification  NotificationConfig   `koanf:"notification"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// StoreDriver names the backing document store.
type StoreDriver string

const (
	StoreFirestore StoreDriver = "firestore"
	StorePostgres  StoreDriver = "postgres"
	StoreRedis     StoreDriver = "redis"
	StoreMemory    StoreDriver = "memory"
)

// StoreConfig selects which document store backs the collections.
type StoreConfig struct {
	Driver StoreDriver `koanf:"driver" validate:"required,oneof=firestore postgres redis memory"`
}

// FirestoreConfig carries the service account used to reach Firestore.
//
// EmulatorHost is optional; when set the client talks to a local emulator
// and credentials are not required.
type FirestoreConfig struct {
	ProjectID    string `koanf:"project_id"`
	ClientEmail  string `koanf:"client_email"`
	PrivateKey   string `koanf:"private_key"`
	EmulatorHost string `koanf:"emulator_host"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only used when Store.Driver is "postgres".
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
//
// Redis backs the "redis" store driver and the background job queue.
type RedisConfig struct {
	Address   string `koanf:"address"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// NotificationConfig controls the optional staff notification sent when a
// certificate request is created.
type NotificationConfig struct {
	CertificateRequests bool   `koanf:"certificate_requests"`
	ResendAPIKey        string `koanf:"resend_api_key"`
	From                string `koanf:"from"`
	To                  string `koanf:"to"`
}

// defaults are loaded first so any env var overrides them.
var defaults = map[string]interface{}{
	"primary.env":          "development",
	"server.port":          "4000",
	"server.read_timeout":  30,
	"server.write_timeout": 30,
	"server.idle_timeout":  60,
	"server.rate_limit":    0,
	"store.driver":         string(StoreFirestore),
	"database.port":        5432,
	"database.ssl_mode":    "disable",
	"redis.key_prefix":     "platform",
	"notification.from":    "Platform <notifications@resend.dev>",
}

// legacyEnv maps the variable names used by the first deployment onto
// koanf keys so existing environments keep working.
var legacyEnv = map[string]string{
	"PORT":                  "server.port",
	"ALLOWED_ORIGINS":       "server.cors_allowed_origins",
	"FIREBASE_PROJECT_ID":   "firestore.project_id",
	"FIREBASE_CLIENT_EMAIL": "firestore.client_email",
	"FIREBASE_PRIVATE_KEY":  "firestore.private_key",
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, applies observability defaults,
// and returns the result.
//
// Every failure is returned as an error; the caller decides whether to exit.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	// Legacy names first so the prefixed variables win on conflict.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := legacyEnv[key]
		if !ok {
			return "", nil
		}
		return mapped, normalizeValue(mapped, value)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		mapped := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		return mapped, normalizeValue(mapped, value)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Observability defaults are decoded over, so a partial env block keeps
	// the remaining defaults. Checks is left empty to mean "every check".
	observability := DefaultObservabilityConfig()
	observability.HealthChecks.Checks = nil

	mainConfig := &Config{Observability: observability}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and environment always follows Primary.Env so
	// logs and traces stay consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// Validate applies the cross-field rules struct tags cannot express:
// each store driver needs its own connection block, and notifications need
// a mail provider and a queue.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore.project_id is required for the firestore store")
		}
		if c.Firestore.EmulatorHost == "" && (c.Firestore.ClientEmail == "" || c.Firestore.PrivateKey == "") {
			return fmt.Errorf("firestore.client_email and firestore.private_key are required for the firestore store")
		}
	case StorePostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host, database.user and database.name are required for the postgres store")
		}
	case StoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis store")
		}
	}

	if c.Notification.CertificateRequests {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when certificate request notifications are enabled")
		}
		if c.Notification.ResendAPIKey == "" || c.Notification.To == "" {
			return fmt.Errorf("notification.resend_api_key and notification.to are required when certificate request notifications are enabled")
		}
	}

	return nil
}

// JobsEnabled reports whether the background job queue has any work to do.
func (c *Config) JobsEnabled() bool {
	return c.Notification.CertificateRequests
}

// normalizeValue turns raw env strings into the shapes some keys expect.
func normalizeValue(key, value string) interface{} {
	switch key {
	case "server.cors_allowed_origins":
		return SplitOrigins(value)
	case "firestore.private_key":
		// Keys pasted into a single-line env var carry literal "\n".
		return strings.ReplaceAll(value, `\n`, "\n")
	}
	return value
}

// SplitOrigins parses a comma separated origin list, trimming whitespace
// and dropping empty entries.
func SplitOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
