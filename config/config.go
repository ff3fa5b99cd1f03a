package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings holds the process configuration, read from the environment.
type Settings struct {
	ListenAddr   string `env:"LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	DatabasePath string `env:"DATABASE_PATH" env-default:"data/cinevault.db"`

	OMDb OMDbSettings
	Log  LogSettings
}

// OMDbSettings configures the external metadata client.
type OMDbSettings struct {
	APIKey  string `env:"OMDB_API_KEY" env-required:"true"`
	BaseURL string `env:"OMDB_BASE_URL" env-default:"https://www.omdbapi.com/"`
}

// LogSettings configures structured logging output. Path empty means
// stderr only, no file rotation.
type LogSettings struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	Path       string `env:"LOG_PATH" env-default:""`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" env-default:"20"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" env-default:"3"`
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &s, nil
}
