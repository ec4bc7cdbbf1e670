package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	DBPath   string `envconfig:"DB_PATH" default:"consign.db"`
	LabelDir string `envconfig:"LABEL_DIR" default:"labels"`

	// Auth
	JWTSecret    string `envconfig:"JWT_SECRET"`
	JWTAlgorithm string `envconfig:"JWT_ALG" default:"HS256"`
	JWTIssuer    string `envconfig:"JWT_ISS" default:"auth-service"`
	JWTAudience  string `envconfig:"JWT_AUD" default:"dpd-app"`

	// Accounts service
	AccountsAPI             string        `envconfig:"ACCOUNTS_API"`
	AccountsUseMock         bool          `envconfig:"ACCOUNTS_USE_MOCK" default:"false"`
	AccountsValidateTimeout time.Duration `envconfig:"ACCOUNTS_VALIDATE_TIMEOUT" default:"3s"`

	// Depot-resolution ("gazzing") service
	GazzingAPI     string `envconfig:"GAZZING_API"`
	GazzingUseMock bool   `envconfig:"GAZZING_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"consign"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables, with an optional
// .env file for local development. Missing required values fail here, at
// startup, rather than at first use.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set for this service")
	}
	if !c.AccountsUseMock && c.AccountsAPI == "" {
		return errors.New("ACCOUNTS_API is not set (or set ACCOUNTS_USE_MOCK=true)")
	}
	if !c.GazzingUseMock && c.GazzingAPI == "" {
		return errors.New("GAZZING_API is not set (or set GAZZING_USE_MOCK=true)")
	}
	return nil
}
