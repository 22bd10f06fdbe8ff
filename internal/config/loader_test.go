package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultHyperspeedConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}

	if cfg != DefaultHyperspeedConfig() {
		t.Errorf("embedded defaults drifted from DefaultHyperspeedConfig():\n got %+v\nwant %+v", cfg, DefaultHyperspeedConfig())
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultHyperspeedConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadCustomPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("track:\n  speed_z: 35\nplayer:\n  start_health: 30\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadHyperspeed(path)
	if err != nil {
		t.Fatalf("LoadHyperspeed() failed: %v", err)
	}

	if cfg.Track.SpeedZ != 35 {
		t.Errorf("speed_z = %v, expected 35", cfg.Track.SpeedZ)
	}
	if cfg.Player.StartHealth != 30 {
		t.Errorf("start_health = %d, expected 30", cfg.Player.StartHealth)
	}
	// Untouched keys keep their defaults
	if cfg.Pool.Obstacles != 10 || cfg.Pool.Bonuses != 10 {
		t.Errorf("pool sizes = %d/%d, expected defaults 10/10", cfg.Pool.Obstacles, cfg.Pool.Bonuses)
	}
	if cfg.Track.LateralRate != 0.05 {
		t.Errorf("lateral_rate = %v, expected default 0.05", cfg.Track.LateralRate)
	}
}

func TestLoadCustomMissingFile(t *testing.T) {
	_, err := LoadHyperspeed(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadCustomInvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("pool:\n  bonus_value: { min: 20, max: 5 }\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadHyperspeed(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsSpawnsBehindCraft(t *testing.T) {
	tests := map[string]string{
		"spawn_ahead": "pool:\n  spawn_ahead: -150\n",
		"spawn_depth": "pool:\n  spawn_depth: { min: -200, max: 0 }\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "behind.yaml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := LoadHyperspeed(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateRejectsEmptyPool(t *testing.T) {
	cfg := DefaultHyperspeedConfig()
	cfg.Pool.Obstacles = 0
	cfg.Pool.Bonuses = 0

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty pool, got %v", err)
	}
}
