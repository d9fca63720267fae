package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fintrack/bank-import/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from the first .env file found in paths (default
// ".env"). Variables already set in the environment win. A missing file is
// not an error.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

// Load reads .env, then the layered configuration.
func Load(configFile string) (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, err
	}
	return InitializeConfig(configFile)
}

// NewLogger builds the application logger from the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
