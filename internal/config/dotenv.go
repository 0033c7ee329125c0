package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// If the file does not exist, it silently returns nil (not an error).
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}

// MustLoadDotEnv loads environment variables from a .env file.
// Unlike LoadDotEnv, it returns an error if the file does not exist.
func MustLoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	return godotenv.Load(path)
}

// LoadConfig builds the configuration from, in increasing precedence, the
// defaults, the YAML file at filePath (skipped when empty), and the
// environment after loading the optional .env file at envPath. Variables
// already set in the process environment win over the .env file.
func LoadConfig(envPath, filePath string) (AppConfig, error) {
	base := NewAppConfig()
	if filePath != "" {
		fc, err := LoadFile(filePath)
		if err != nil {
			return AppConfig{}, err
		}
		base = base.Apply(fc.Options()...)
	}

	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnvOver(base)
	if err != nil {
		return AppConfig{}, err
	}

	return envCfg.ToAppConfig(), nil
}
