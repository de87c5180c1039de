package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/sink"
	"github.com/JonMunkholm/salesfuse/internal/source"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values, then each override in order, and
// validates the result.
// Returns an error if required values are missing or validation fails.
func Load(overrides ...func(*Config)) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Source validation
	if _, err := source.ParseEncoding(c.Sources.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("SOURCE_ENCODING: %v", err))
	}
	paths := c.Sources.Paths()
	for env, p := range map[string]string{
		"SOURCE_TRANSACTIONS":   paths.Transactions,
		"SOURCE_PRODUCTS":       paths.Products,
		"SOURCE_CUSTOMERS":      paths.Customers,
		"SOURCE_STORES":         paths.Stores,
		"SOURCE_EXCHANGE_RATES": paths.ExchangeRates,
	} {
		if p == "" {
			errs = append(errs, env+" is required")
		}
	}

	// Output validation
	if c.Output.Enabled {
		if c.Output.Path == "" {
			errs = append(errs, "OUTPUT_PATH is required when OUTPUT_ENABLED is true")
		}
		if _, err := source.ParseEncoding(c.Output.Encoding); err != nil {
			errs = append(errs, fmt.Sprintf("OUTPUT_ENCODING: %v", err))
		}
	}

	// Database validation
	switch strings.ToLower(c.Database.Driver) {
	case DriverMySQL, DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Sprintf("DATABASE_URL is required when DB_DRIVER is %s", c.Database.Driver))
		}
		if c.Database.Table == "" {
			errs = append(errs, "DB_TABLE is required")
		}
		if _, err := sink.ParseLoadMode(c.Database.LoadMode); err != nil {
			errs = append(errs, fmt.Sprintf("DB_LOAD_MODE: %v", err))
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MaxConnLifetime < 0 {
			errs = append(errs, "DB_MAX_CONN_LIFETIME must be non-negative")
		}
		if c.Database.Timeout <= 0 {
			errs = append(errs, "DB_TIMEOUT must be positive")
		}
	case DriverNone:
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: mysql, postgres, none", c.Database.Driver))
	}

	// Pipeline validation
	if _, err := core.ParseRoundingMode(c.Pipeline.Rounding); err != nil {
		errs = append(errs, fmt.Sprintf("PIPELINE_ROUNDING: %v", err))
	}
	if c.Pipeline.PreviewRows < 0 {
		errs = append(errs, "PIPELINE_PREVIEW_ROWS must be non-negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Sources: {Dir: %q, Encoding: %q}, ", c.Sources.Dir, c.Sources.Encoding))
	b.WriteString(fmt.Sprintf("Output: {Enabled: %v, Path: %q, Encoding: %q}, ",
		c.Output.Enabled, c.Output.Path, c.Output.Encoding))
	b.WriteString(fmt.Sprintf("Database: {Driver: %q, URL: [MASKED], Table: %q, LoadMode: %q, MaxConns: %d}, ",
		c.Database.Driver, c.Database.Table, c.Database.LoadMode, c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Pipeline: {Rounding: %q, StrictJoins: %v, PreviewRows: %d}, ",
		c.Pipeline.Rounding, c.Pipeline.StrictJoins, c.Pipeline.PreviewRows))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
