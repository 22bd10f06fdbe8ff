package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/hyperspeed.yaml
var defaultHyperspeedYAML []byte

// DefaultHyperspeedConfig returns the default configuration.
// Values match the embedded defaults/hyperspeed.yaml.
func DefaultHyperspeedConfig() HyperspeedConfig {
	return HyperspeedConfig{
		Track: TrackConfig{
			SpeedZ:      20,
			LateralRate: 0.05,
		},
		Pool: PoolConfig{
			Obstacles:     10,
			Bonuses:       10,
			ObstacleScale: Range{Min: 0.5, Max: 2},
			SpreadX:       Range{Min: -30, Max: 30},
			SpawnAhead:    100,
			SpawnDepth:    Range{Min: 0, Max: 100},
			BonusValue:    Range{Min: 5, Max: 20},
			BonusSize:     0.5,
		},
		Collision: CollisionConfig{
			Threshold: 0.2,
		},
		Player: PlayerConfig{
			StartHealth:     50,
			ObstaclePenalty: 10,
		},
		Lobby: LobbyConfig{
			Address:         ":8080",
			URL:             "ws://localhost:8080/ws",
			WriteWait:       10 * time.Second,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			EventBuffer:     64,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultHyperspeedYAML
}
