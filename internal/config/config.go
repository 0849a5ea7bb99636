package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Driver names accepted in DB_DRIVER.
const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMysql    = "mysql"
	DriverMssql    = "mssql"
)

// Schema-text construction modes.
const (
	SchemaStatic     = "static"
	SchemaIntrospect = "introspect"
)

const (
	defaultSqlitePath   = "database/total_inversiones.db"
	defaultTableName    = "total_inversiones"
	defaultQueryTimeout = 30 * time.Second
	defaultModel        = "claude-sonnet-4-5-20250929"
)

// Config is the process configuration, loaded once at startup. There is no
// package-level mutable state; callers own the returned value.
type Config struct {
	Driver string

	// File mode (sqlite).
	Path string

	// Client-server mode.
	Host     string
	Port     string
	Name     string
	User     string
	Password string

	TableName    string
	SchemaMode   string
	QueryTimeout time.Duration

	AnthropicAPIKey string
	Model           string
}

// Load reads configuration from the environment and validates it eagerly.
// In client-server mode every required variable must be present; all missing
// keys are reported in a single error so the operator fixes them in one go.
func Load() (*Config, error) {
	cfg := &Config{
		Driver:          strings.ToLower(envOr("DB_DRIVER", DriverSqlite)),
		Path:            envOr("DB_PATH", defaultSqlitePath),
		Host:            os.Getenv("DB_HOST"),
		Port:            os.Getenv("DB_PORT"),
		Name:            os.Getenv("DB_NAME"),
		User:            os.Getenv("DB_USER"),
		Password:        os.Getenv("DB_PASSWORD"),
		TableName:       envOr("DB_TABLE_NAME", defaultTableName),
		SchemaMode:      strings.ToLower(envOr("SCHEMA_MODE", SchemaStatic)),
		QueryTimeout:    defaultQueryTimeout,
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           envOr("INVERCHAT_MODEL", defaultModel),
	}

	switch cfg.Driver {
	case DriverSqlite, DriverPostgres, DriverMysql, DriverMssql:
	default:
		return nil, fmt.Errorf("unsupported driver %q in DB_DRIVER", cfg.Driver)
	}

	switch cfg.SchemaMode {
	case SchemaStatic, SchemaIntrospect:
	default:
		return nil, fmt.Errorf("unsupported schema mode %q in SCHEMA_MODE", cfg.SchemaMode)
	}

	if raw := os.Getenv("QUERY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QUERY_TIMEOUT %q: %w", raw, err)
		}
		cfg.QueryTimeout = d
	}

	if cfg.Driver != DriverSqlite {
		var missing []string
		for _, v := range []struct {
			key, val string
		}{
			{"DB_HOST", cfg.Host},
			{"DB_PORT", cfg.Port},
			{"DB_NAME", cfg.Name},
			{"DB_USER", cfg.User},
			{"DB_PASSWORD", cfg.Password},
			{"DB_TABLE_NAME", os.Getenv("DB_TABLE_NAME")},
		} {
			if v.val == "" {
				missing = append(missing, v.key)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	}

	return cfg, nil
}

// DSN builds the driver-specific connection string for client-server modes.
// For sqlite the path itself is the source; the driver package turns it into
// a read-only file: URI.
func (c *Config) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
			url.QueryEscape(c.User), url.QueryEscape(c.Password),
			c.Host, c.Port, c.Name)
	case DriverMysql:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverMssql:
		return fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			url.QueryEscape(c.User), url.QueryEscape(c.Password),
			c.Host, c.Port, url.QueryEscape(c.Name))
	default:
		return c.Path
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
