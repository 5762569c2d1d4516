// Package cli wires configuration, logging, storage and the command layer
// together for cmd/tracker, and renders results for the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"budgettracker/internal/config"
	applog "budgettracker/internal/log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from configuration and sets it
// as the slog default. Logs go to w, normally stderr.
func SetupLogger(cfg *config.Config, w io.Writer) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg := applog.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.LogFormat
	if w != nil {
		logCfg.Output = w
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig reads the optional config file into v, resolves the
// configuration and validates it.
func LoadAndValidateConfig(v *viper.Viper, cfgFile string) (*config.Config, error) {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Fatal prints err styled for the terminal and exits with status 1.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, FormatError(UserMessage(err)))
	os.Exit(1)
}
