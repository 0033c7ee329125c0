package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Variables that are
// not set keep the value the struct was seeded with.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: postgresql://postgres:postgres@db/pqvector_db
	DBURL string `envconfig:"DB_URL"`

	// DBMaxOpenConns caps open pool connections; 0 means unlimited.
	// Env: DB_MAX_OPEN_CONNS (default: 10)
	DBMaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS"`

	// DBMaxIdleConns caps idle pool connections.
	// Env: DB_MAX_IDLE_CONNS (default: 5)
	DBMaxIdleConns int `envconfig:"DB_MAX_IDLE_CONNS"`

	// DBConnMaxLifetime is the connection reuse limit in seconds.
	// Env: DB_CONN_MAX_LIFETIME (default: 1800)
	DBConnMaxLifetime float64 `envconfig:"DB_CONN_MAX_LIFETIME"`

	// DBLogQueries logs every SQL statement at debug level.
	// Env: DB_LOG_QUERIES (default: false)
	DBLogQueries bool `envconfig:"DB_LOG_QUERIES"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ALLOWED_ORIGINS (default: *)
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// NewEnvConfig returns an EnvConfig holding c's values.
func NewEnvConfig(c AppConfig) EnvConfig {
	return EnvConfig{
		Host:               c.host,
		Port:               c.port,
		DBURL:              c.dbURL,
		DBMaxOpenConns:     c.dbMaxOpenConns,
		DBMaxIdleConns:     c.dbMaxIdleConns,
		DBConnMaxLifetime:  c.dbConnMaxLifetime.Seconds(),
		DBLogQueries:       c.dbLogQueries,
		LogLevel:           c.logLevel,
		LogFormat:          string(c.logFormat),
		CORSAllowedOrigins: c.CORSAllowedOrigins(),
	}
}

// LoadFromEnv loads configuration from environment variables over the
// defaults.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvOver(NewAppConfig())
}

// LoadFromEnvOver loads configuration from environment variables over base.
// It uses no prefix.
func LoadFromEnvOver(base AppConfig) (EnvConfig, error) {
	cfg := NewEnvConfig(base)
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	return NewAppConfigWithOptions(
		WithHost(e.Host),
		WithPort(e.Port),
		WithDBURL(e.DBURL),
		WithDBPool(e.DBMaxOpenConns, e.DBMaxIdleConns, time.Duration(e.DBConnMaxLifetime*float64(time.Second))),
		WithDBLogQueries(e.DBLogQueries),
		WithLogLevel(e.LogLevel),
		WithLogFormat(parseLogFormat(e.LogFormat)),
		WithCORSAllowedOrigins(ParseList(strings.Join(e.CORSAllowedOrigins, ","))),
	)
}
