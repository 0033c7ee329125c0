package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file layout. Omitted keys leave the
// corresponding setting unchanged.
type FileConfig struct {
	Server struct {
		Host               *string  `yaml:"host"`
		Port               *int     `yaml:"port"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Database struct {
		URL                    *string  `yaml:"url"`
		MaxOpenConns           *int     `yaml:"max_open_conns"`
		MaxIdleConns           *int     `yaml:"max_idle_conns"`
		ConnMaxLifetimeSeconds *float64 `yaml:"conn_max_lifetime_seconds"`
		LogQueries             *bool    `yaml:"log_queries"`
	} `yaml:"database"`

	Log struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// Options returns the options for every key present in the file.
func (f FileConfig) Options() []AppConfigOption {
	var opts []AppConfigOption
	if f.Server.Host != nil {
		opts = append(opts, WithHost(*f.Server.Host))
	}
	if f.Server.Port != nil {
		opts = append(opts, WithPort(*f.Server.Port))
	}
	if f.Server.CORSAllowedOrigins != nil {
		opts = append(opts, WithCORSAllowedOrigins(f.Server.CORSAllowedOrigins))
	}
	if f.Database.URL != nil {
		opts = append(opts, WithDBURL(*f.Database.URL))
	}
	if f.Database.MaxOpenConns != nil {
		opts = append(opts, func(c *AppConfig) { c.dbMaxOpenConns = *f.Database.MaxOpenConns })
	}
	if f.Database.MaxIdleConns != nil {
		opts = append(opts, func(c *AppConfig) { c.dbMaxIdleConns = *f.Database.MaxIdleConns })
	}
	if f.Database.ConnMaxLifetimeSeconds != nil {
		lifetime := time.Duration(*f.Database.ConnMaxLifetimeSeconds * float64(time.Second))
		opts = append(opts, func(c *AppConfig) { c.dbConnMaxLifetime = lifetime })
	}
	if f.Database.LogQueries != nil {
		opts = append(opts, WithDBLogQueries(*f.Database.LogQueries))
	}
	if f.Log.Level != nil {
		opts = append(opts, WithLogLevel(*f.Log.Level))
	}
	if f.Log.Format != nil {
		opts = append(opts, WithLogFormat(parseLogFormat(*f.Log.Format)))
	}
	return opts
}
