// Package config provides configuration management for chancekeeper services.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config holds the complete service configuration.
type Config struct {
	Name     string `validate:"required"`
	Version  string `validate:"required"`
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
}

// ServerConfig holds listener settings for the gRPC data plane and the HTTP
// control plane.
type ServerConfig struct {
	GRPCHost        string        `validate:"required"`
	GRPCPort        int           `validate:"min=1,max=65535"`
	HTTPHost        string        `validate:"required"`
	HTTPPort        int           `validate:"min=1,max=65535"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// DatabaseConfig holds the chance store connection URL.
// Supported schemes: sqlite://, postgres://
type DatabaseConfig struct {
	URL string `validate:"required"`
}

// CacheConfig sizes the in-memory cache of decoded chances.
type CacheConfig struct {
	Capacity int           `validate:"gt=0"`
	TTL      time.Duration `validate:"gt=0"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Name:    "chancekeeper",
		Version: "dev",
		Server: ServerConfig{
			GRPCHost:        "0.0.0.0",
			GRPCPort:        50051,
			HTTPHost:        "0.0.0.0",
			HTTPPort:        8080,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL: "sqlite://./data/chancekeeper.db",
		},
		Cache: CacheConfig{
			Capacity: 10000,
			TTL:      5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks struct tags, then cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return validateConfig(c)
}

// validateConfig checks rules struct tags cannot express.
func validateConfig(c *Config) error {
	if c.Server.GRPCPort == c.Server.HTTPPort && c.Server.GRPCHost == c.Server.HTTPHost {
		return fmt.Errorf("grpc_port and http_port must differ on the same host, both are %d", c.Server.GRPCPort)
	}
	return nil
}

// MarshalZerologObject logs the configuration without the database URL,
// which may carry credentials.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", c.Name).
		Str("version", c.Version).
		Str("grpc_addr", fmt.Sprintf("%s:%d", c.Server.GRPCHost, c.Server.GRPCPort)).
		Str("http_addr", fmt.Sprintf("%s:%d", c.Server.HTTPHost, c.Server.HTTPPort)).
		Dur("request_timeout", c.Server.RequestTimeout).
		Int("cache_capacity", c.Cache.Capacity).
		Dur("cache_ttl", c.Cache.TTL).
		Str("log_level", c.Log.Level).
		Str("log_format", c.Log.Format)
}
