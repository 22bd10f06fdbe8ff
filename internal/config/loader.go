package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "hyperspeed.yaml"

// LoadHyperspeed resolves the runner configuration. An explicit path must
// load cleanly. Otherwise the first valid file among
// ~/.hyperspeed/configs/hyperspeed.yaml and ./configs/hyperspeed.yaml wins,
// and the embedded defaults cover the rest.
//
// Every file is decoded over the defaults, so it only needs the keys it
// changes.
func LoadHyperspeed(customPath string) (HyperspeedConfig, error) {
	if customPath != "" {
		cfg, err := decode(customPath)
		if err != nil {
			return DefaultHyperspeedConfig(), err
		}
		return cfg, nil
	}

	for _, path := range searchPaths() {
		if cfg, err := decode(path); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultHyperspeedConfig()
	if err := yaml.Unmarshal(defaultHyperspeedYAML, &cfg); err != nil {
		return DefaultHyperspeedConfig(), nil
	}
	return cfg, nil
}

func decode(path string) (HyperspeedConfig, error) {
	cfg := DefaultHyperspeedConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func searchPaths() []string {
	paths := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".hyperspeed", "configs", fileName))
	}
	return append(paths, filepath.Join("configs", fileName))
}
