package internal

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tvcat/tvcat/internal/api"
	"github.com/tvcat/tvcat/internal/database"
)

// TvcatConfig is the user-supplied configuration, read from a YAML file
// with environment variable overrides.
type TvcatConfig struct {
	Database database.DatabaseConfig `yaml:"database" env-required:"true"`
	Rest     api.RestConfig          `yaml:"api" env-required:"true"`
}

// LoadFromFile populates the config from the YAML file at the given path,
// applying any environment overrides declared on the fields.
func (config *TvcatConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	return nil
}
