// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultDBURL             = "postgresql://postgres:postgres@db/pqvector_db"
	DefaultDBMaxOpenConns    = 10
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 30 * time.Minute
	DefaultLogLevel          = "INFO"
	DefaultShutdownTimeout   = 10 * time.Second
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	host               string
	port               int
	dbURL              string
	dbMaxOpenConns     int
	dbMaxIdleConns     int
	dbConnMaxLifetime  time.Duration
	dbLogQueries       bool
	logLevel           string
	logFormat          LogFormat
	corsAllowedOrigins []string
	shutdownTimeout    time.Duration
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:               DefaultHost,
		port:               DefaultPort,
		dbURL:              DefaultDBURL,
		dbMaxOpenConns:     DefaultDBMaxOpenConns,
		dbMaxIdleConns:     DefaultDBMaxIdleConns,
		dbConnMaxLifetime:  DefaultDBConnMaxLifetime,
		logLevel:           DefaultLogLevel,
		logFormat:          LogFormatPretty,
		corsAllowedOrigins: []string{"*"},
		shutdownTimeout:    DefaultShutdownTimeout,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// DBMaxOpenConns returns the pool's maximum number of open connections.
func (c AppConfig) DBMaxOpenConns() int { return c.dbMaxOpenConns }

// DBMaxIdleConns returns the pool's maximum number of idle connections.
func (c AppConfig) DBMaxIdleConns() int { return c.dbMaxIdleConns }

// DBConnMaxLifetime returns how long a pooled connection may be reused.
func (c AppConfig) DBConnMaxLifetime() time.Duration { return c.dbConnMaxLifetime }

// DBLogQueries returns whether every SQL statement is logged.
func (c AppConfig) DBLogQueries() bool { return c.dbLogQueries }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// CORSAllowedOrigins returns the origins allowed to call the HTTP API.
func (c AppConfig) CORSAllowedOrigins() []string {
	origins := make([]string, len(c.corsAllowedOrigins))
	copy(origins, c.corsAllowedOrigins)
	return origins
}

// ShutdownTimeout returns how long the server waits for in-flight requests.
func (c AppConfig) ShutdownTimeout() time.Duration { return c.shutdownTimeout }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithDBPool sets the connection pool limits.
func WithDBPool(maxOpen, maxIdle int, maxLifetime time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		c.dbMaxOpenConns = maxOpen
		c.dbMaxIdleConns = maxIdle
		c.dbConnMaxLifetime = maxLifetime
	}
}

// WithDBLogQueries enables SQL statement logging.
func WithDBLogQueries(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.dbLogQueries = enabled }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithCORSAllowedOrigins sets the allowed CORS origins.
func WithCORSAllowedOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsAllowedOrigins = make([]string, len(origins))
		copy(c.corsAllowedOrigins, origins)
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	c.corsAllowedOrigins = c.CORSAllowedOrigins()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Database credentials are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("db_url", c.maskedDBURL()),
		slog.Int("db_max_open_conns", c.dbMaxOpenConns),
		slog.Int("db_max_idle_conns", c.dbMaxIdleConns),
		slog.Duration("db_conn_max_lifetime", c.dbConnMaxLifetime),
		slog.Bool("db_log_queries", c.dbLogQueries),
		slog.String("log_level", c.logLevel),
		slog.String("log_format", string(c.logFormat)),
		slog.String("cors_allowed_origins", strings.Join(c.corsAllowedOrigins, ",")),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(unset)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	scheme, rest, ok := strings.Cut(c.dbURL, "://")
	if !ok {
		return "***"
	}
	if _, host, found := strings.Cut(rest, "@"); found {
		return scheme + "://***@" + host
	}
	return c.dbURL
}

// ParseList parses a comma-separated list, dropping blanks.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
