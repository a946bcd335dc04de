package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestPrecedence verifies CLI flags > environment > config file > defaults.
func TestPrecedence(t *testing.T) {
	t.Run("config file overrides defaults", func(t *testing.T) {
		path := writeConfigFile(t, `server:
  http_port: 9090
cache:
  capacity: 42
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig error: %v", err)
		}
		if cfg.Server.HTTPPort != 9090 {
			t.Errorf("expected http port 9090, got %d", cfg.Server.HTTPPort)
		}
		if cfg.Cache.Capacity != 42 {
			t.Errorf("expected capacity 42, got %d", cfg.Cache.Capacity)
		}
		if cfg.Server.GRPCPort != 50051 {
			t.Errorf("expected default grpc port, got %d", cfg.Server.GRPCPort)
		}
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		t.Setenv("CK_SERVER_HTTP_PORT", "8181")
		path := writeConfigFile(t, `server:
  http_port: 9090
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig error: %v", err)
		}
		if cfg.Server.HTTPPort != 8181 {
			t.Errorf("environment should override config file, expected 8181, got %d", cfg.Server.HTTPPort)
		}
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv("CK_SERVER_HTTP_PORT", "8181")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("http-port", 0, "")
		if err := flags.Parse([]string{"--http-port=7070"}); err != nil {
			t.Fatal(err)
		}

		v := viper.New()
		if err := v.BindPFlag("server.http_port", flags.Lookup("http-port")); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(v, "")
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Server.HTTPPort != 7070 {
			t.Errorf("flag should override environment, expected 7070, got %d", cfg.Server.HTTPPort)
		}
	})
}
