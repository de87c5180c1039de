// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/source"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Sources  SourcesConfig
	Output   OutputConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// SourcesConfig locates the five input tables.
type SourcesConfig struct {
	// Dir is prepended to relative file names (default: data)
	Dir string `env:"SOURCE_DIR" default:"data"`

	Transactions  string `env:"SOURCE_TRANSACTIONS" default:"Sales.csv"`
	Products      string `env:"SOURCE_PRODUCTS" default:"Products.csv"`
	Customers     string `env:"SOURCE_CUSTOMERS" default:"Customers.csv"`
	Stores        string `env:"SOURCE_STORES" default:"Stores.csv"`
	ExchangeRates string `env:"SOURCE_EXCHANGE_RATES" default:"Exchange_Rates.csv"`

	// Encoding is the text encoding of every source file (default: latin1)
	Encoding string `env:"SOURCE_ENCODING" default:"latin1"`
}

// OutputConfig holds delimited-file sink settings.
type OutputConfig struct {
	// Enabled controls whether the file is written (default: true)
	Enabled bool `env:"OUTPUT_ENABLED" default:"true"`

	// Path is the output file (default: sales_data.csv)
	Path string `env:"OUTPUT_PATH" default:"sales_data.csv"`

	// Encoding is the output text encoding (default: utf-8)
	Encoding string `env:"OUTPUT_ENCODING" default:"utf-8"`
}

// DatabaseConfig holds relational sink settings.
type DatabaseConfig struct {
	// Driver selects the sink: mysql, postgres or none (default: mysql)
	Driver string `env:"DB_DRIVER" default:"mysql"`

	// URL is the MySQL DSN or PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the target table, optionally schema-qualified (default: sales_data)
	Table string `env:"DB_TABLE" default:"sales_data"`

	// LoadMode is append or replace (default: append)
	LoadMode string `env:"DB_LOAD_MODE" default:"append"`

	// MaxConns is the maximum number of open connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// Timeout bounds connecting and the whole load (default: 5m)
	Timeout time.Duration `env:"DB_TIMEOUT" default:"5m"`
}

// PipelineConfig holds transformation settings.
type PipelineConfig struct {
	// Rounding is the money rounding mode: half_even or half_up (default: half_even)
	Rounding string `env:"PIPELINE_ROUNDING" default:"half_even"`

	// StrictJoins fails the run when a join key matches more than one row (default: false)
	StrictJoins bool `env:"PIPELINE_STRICT_JOINS" default:"false"`

	// PreviewRows is how many output rows `run --preview` prints (default: 5)
	PreviewRows int `env:"PIPELINE_PREVIEW_ROWS" default:"5"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Paths resolves the source file names against Dir.
func (c *SourcesConfig) Paths() source.Paths {
	resolve := func(name string) string {
		if filepath.IsAbs(name) || c.Dir == "" {
			return name
		}
		return filepath.Join(c.Dir, name)
	}
	return source.Paths{
		Transactions:  resolve(c.Transactions),
		Products:      resolve(c.Products),
		Customers:     resolve(c.Customers),
		Stores:        resolve(c.Stores),
		ExchangeRates: resolve(c.ExchangeRates),
	}
}

// DatabaseEnabled reports whether a database sink is configured.
func (c *DatabaseConfig) DatabaseEnabled() bool {
	return !strings.EqualFold(c.Driver, DriverNone)
}

// Database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)
