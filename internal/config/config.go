package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	applog "budgettracker/internal/log"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. TRACKER_DATA_BACKEND.
const EnvPrefix = "TRACKER"

// Configuration keys
const (
	KeyDataBackend    = "data_backend"
	KeySQLiteDBPath   = "sqlite_db_path"
	KeyDataDir        = "data_dir"
	KeyExportDir      = "export_dir"
	KeyCurrencySymbol = "currency_symbol"
	KeyAMQPURL        = "amqp_url"
	KeyAMQPExchange   = "amqp_exchange"
	KeyAMQPRoutingKey = "amqp_routing_key"
	KeyAMQPQueue      = "amqp_queue"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// Backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendMemory, BackendFile, BackendSQLite}

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string
	DataDir      string

	// Output
	ExportDir      string
	CurrencySymbol string

	// AMQP change feed, disabled when AMQPURL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
	// Queue the watch command reads from; empty means a private
	// queue that disappears with the consumer.
	AMQPQueue string

	// Logging
	LogLevel  string
	LogFormat string
}

var defaults = map[string]string{
	KeyDataBackend:    BackendSQLite,
	KeySQLiteDBPath:   "./data/tracker.db",
	KeyDataDir:        "./data",
	KeyExportDir:      ".",
	KeyCurrencySymbol: "₹",
	KeyAMQPURL:        "",
	KeyAMQPExchange:   "tracker",
	KeyAMQPRoutingKey: "state_changed",
	KeyAMQPQueue:      "",
	KeyLogLevel:       "warn",
	KeyLogFormat:      applog.FormatText,
}

// NewViper returns a viper instance with defaults and TRACKER_ environment
// overrides wired up.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads a YAML config file. With an explicit path the file must
// exist; otherwise $HOME/.config/tracker/config.yaml and ./config.yaml are
// tried and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tracker"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves the configuration from v.
func Load(v *viper.Viper) *Config {
	return &Config{
		DataBackend:  strings.ToLower(strings.TrimSpace(v.GetString(KeyDataBackend))),
		SQLiteDBPath: v.GetString(KeySQLiteDBPath),
		DataDir:      v.GetString(KeyDataDir),

		ExportDir:      v.GetString(KeyExportDir),
		CurrencySymbol: v.GetString(KeyCurrencySymbol),

		AMQPURL:        v.GetString(KeyAMQPURL),
		AMQPExchange:   v.GetString(KeyAMQPExchange),
		AMQPRoutingKey: v.GetString(KeyAMQPRoutingKey),
		AMQPQueue:      v.GetString(KeyAMQPQueue),

		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}
}

// AMQPEnabled reports whether the change feed is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	}

	if c.CurrencySymbol == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != applog.FormatText && c.LogFormat != applog.FormatJSON {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
