package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.GRPCHost != "0.0.0.0" {
			t.Errorf("expected grpc host 0.0.0.0, got %s", cfg.Server.GRPCHost)
		}
		if cfg.Server.GRPCPort != 50051 {
			t.Errorf("expected grpc port 50051, got %d", cfg.Server.GRPCPort)
		}
		if cfg.Server.HTTPPort != 8080 {
			t.Errorf("expected http port 8080, got %d", cfg.Server.HTTPPort)
		}
		if cfg.Server.RequestTimeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", cfg.Server.RequestTimeout)
		}
		if cfg.Database.URL != "sqlite://./data/chancekeeper.db" {
			t.Errorf("expected default sqlite url, got %s", cfg.Database.URL)
		}
		if cfg.Cache.Capacity != 10000 {
			t.Errorf("expected cache capacity 10000, got %d", cfg.Cache.Capacity)
		}
		if cfg.Cache.TTL != 5*time.Minute {
			t.Errorf("expected cache ttl 5m, got %v", cfg.Cache.TTL)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("expected info/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("CK_SERVER_GRPC_PORT", "9999")
		t.Setenv("CK_SERVER_GRPC_HOST", "127.0.0.1")
		t.Setenv("CK_CACHE_TTL", "30s")
		t.Setenv("CK_LOG_LEVEL", " DEBUG ")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.GRPCPort != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.Server.GRPCPort)
		}
		if cfg.Server.GRPCHost != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.GRPCHost)
		}
		if cfg.Cache.TTL != 30*time.Second {
			t.Errorf("expected cache ttl 30s, got %v", cfg.Cache.TTL)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %q", cfg.Log.Level)
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		t.Setenv("CK_SERVER_GRPC_PORT", "70000")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("invalid negative values", func(t *testing.T) {
		t.Setenv("CK_CACHE_CAPACITY", "-1")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for negative cache capacity")
		}
	})

	t.Run("unknown log format", func(t *testing.T) {
		t.Setenv("CK_LOG_FORMAT", "xml")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for log format xml")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/chancekeeper.yaml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		if err := Default().Validate(); err != nil {
			t.Errorf("Default().Validate() = %v", err)
		}
	})

	t.Run("port clash on same host", func(t *testing.T) {
		cfg := Default()
		cfg.Server.HTTPPort = cfg.Server.GRPCPort
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "must differ") {
			t.Errorf("Validate() = %v, want port clash error", err)
		}
	})

	t.Run("same port on different hosts", func(t *testing.T) {
		cfg := Default()
		cfg.Server.GRPCHost = "127.0.0.1"
		cfg.Server.HTTPPort = cfg.Server.GRPCPort
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("empty database url", func(t *testing.T) {
		cfg := Default()
		cfg.Database.URL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty database url")
		}
	})
}

func TestMarshalZerologObject_OmitsDatabaseURL(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	cfg := Default()
	cfg.Database.URL = "postgres://user:secret@db/chances"
	log.Info().EmbedObject(cfg).Msg("config")

	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Errorf("log output leaks database url: %s", out)
	}
	if !strings.Contains(out, `"grpc_addr":"0.0.0.0:50051"`) {
		t.Errorf("log output missing grpc_addr: %s", out)
	}
}
