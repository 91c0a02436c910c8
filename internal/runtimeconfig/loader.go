package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadFile reads a YAML configuration file and merges it over the defaults.
// A missing file is not an error; callers get the defaults back untouched.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("press config: read %s: %w", trimmed, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("press config: parse %s: %w", trimmed, err)
	}
	return cfg, nil
}
