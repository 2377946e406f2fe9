package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"restopos/internal/config"
)

// LoadConfig overlays the YAML file at path on top of the environment
// configuration. Keys missing from the file keep their environment value.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
