// Package config loads the application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// GHSKILLS_* environment variables. Keys are flat, e.g. GHSKILLS_ML_URL → ml_url.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "GHSKILLS_"
	// PathEnvVar names the config file when --config is not given.
	PathEnvVar = "GHSKILLS_CONFIG"
)

// ErrInvalidConfig is returned when the loaded values fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	Addr   string `koanf:"addr" validate:"required"`
	DBPath string `koanf:"db_path" validate:"required"`

	GitHubGraphQLURL string `koanf:"github_graphql_url" validate:"omitempty,url"`
	GitHubRESTURL    string `koanf:"github_rest_url" validate:"omitempty,url"`

	MLURL             string        `koanf:"ml_url" validate:"required,url"`
	MLTimeout         time.Duration `koanf:"ml_timeout" validate:"gt=0"`
	MLBreakerFailures uint32        `koanf:"ml_breaker_failures" validate:"gte=1"`
	MLBreakerTimeout  time.Duration `koanf:"ml_breaker_timeout" validate:"gt=0"`

	CORSOrigins  string `koanf:"cors_origins"`
	RateLimitRPM int    `koanf:"rate_limit_rpm" validate:"gte=0"`
	EmptyMessage string `koanf:"empty_message"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel:          "info",
		LogFormat:         "console",
		Addr:              "127.0.0.1:8080",
		DBPath:            "data/github-skills.db",
		MLURL:             "http://localhost:8000",
		MLTimeout:         30 * time.Second,
		MLBreakerFailures: 5,
		MLBreakerTimeout:  60 * time.Second,
		CORSOrigins:       "http://localhost:3000",
		RateLimitRPM:      120,
		EmptyMessage:      "No repositories found. Please sync your data.",
	}
}

// Load builds the configuration. path may be empty, in which case
// GHSKILLS_CONFIG is consulted; with neither set no file is read.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Origins splits CORSOrigins into its non-empty entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// envKey maps GHSKILLS_ML_TIMEOUT to ml_timeout. GHSKILLS_CONFIG is not a key.
func envKey(key string) string {
	if key == PathEnvVar {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}
