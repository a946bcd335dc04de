package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solatis/chancekeeper/internal/core/config"
	"github.com/solatis/chancekeeper/internal/logger"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "chancekeeper",
	Short:         "chancekeeper chance and modifier engine",
	Long:          `chancekeeper stores chance definitions and computes their effective factor against a context of named conditions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().String("db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, console)")
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

// loadConfig loads configuration with persistent flags bound over
// environment and file values.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := viper.New()

	flags := map[string]string{
		"database.url": "db-url",
		"log.level":    "log-level",
		"log.format":   "log-format",
	}
	for key, flag := range bindings {
		flags[key] = flag
	}

	for key, name := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Version = Version
	return cfg, nil
}

// newLogger writes service logs to stderr so command output on stdout stays
// machine-readable.
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	return logger.NewWithWriter(cfg, w)
}
