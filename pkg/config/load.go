package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the configuration from the environment. When an env file path is
// given and exists it is loaded first; a missing file is not an error so the
// binary runs unchanged in containers that inject plain environment variables.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("env file not loaded, using system environment", "path", path)
			continue
		}
		logger.Info("environment loaded from file", "path", path)
		break
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
