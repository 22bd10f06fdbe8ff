// Package config provides YAML-based configuration loading for the
// hyperspeed runner and its lobby server.
package config

import (
	"errors"
	"fmt"
	"time"
)

// HyperspeedConfig contains all configuration for the runner and lobby.
type HyperspeedConfig struct {
	Track     TrackConfig     `yaml:"track"`
	Pool      PoolConfig      `yaml:"pool"`
	Collision CollisionConfig `yaml:"collision"`
	Player    PlayerConfig    `yaml:"player"`
	Lobby     LobbyConfig     `yaml:"lobby"`
}

// TrackConfig defines how the world scrolls past the craft.
type TrackConfig struct {
	SpeedZ      float64 `yaml:"speed_z"`      // Forward units per second
	LateralRate float64 `yaml:"lateral_rate"` // Lateral units per tick of held intent
}

// Range is a closed float interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Empty reports whether no value lies inside the range.
func (r Range) Empty() bool {
	return r.Min > r.Max
}

// PoolConfig defines the fixed object pool and its spawn distribution.
type PoolConfig struct {
	Obstacles     int     `yaml:"obstacles"`      // Number of obstacle slots
	Bonuses       int     `yaml:"bonuses"`        // Number of bonus slots
	ObstacleScale Range   `yaml:"obstacle_scale"` // Per-axis obstacle scale
	SpreadX       Range   `yaml:"spread_x"`       // Lateral offset from the spawn origin
	SpawnAhead    float64 `yaml:"spawn_ahead"`    // Minimum distance ahead of the origin
	SpawnDepth    Range   `yaml:"spawn_depth"`    // Extra random distance beyond spawn_ahead
	BonusValue    Range   `yaml:"bonus_value"`    // Bonus reward bounds (integers)
	BonusSize     float64 `yaml:"bonus_size"`     // Bonus scale at the top value
}

// CollisionConfig defines proximity thresholds.
type CollisionConfig struct {
	Threshold float64 `yaml:"threshold"` // Added to half the entity scale on X and Z
}

// PlayerConfig defines the craft's starting condition.
type PlayerConfig struct {
	StartHealth     int `yaml:"start_health"`
	ObstaclePenalty int `yaml:"obstacle_penalty"`
}

// LobbyConfig defines the websocket lobby transport.
type LobbyConfig struct {
	Address         string        `yaml:"address"`           // Listen address for `serve`
	URL             string        `yaml:"url"`               // Lobby URL used by `play --lobby`
	WriteWait       time.Duration `yaml:"write_wait"`        // Deadline for a single websocket write
	ReadBufferSize  int           `yaml:"read_buffer_size"`  // Upgrader read buffer
	WriteBufferSize int           `yaml:"write_buffer_size"` // Upgrader write buffer
	EventBuffer     int           `yaml:"event_buffer"`      // Per-client outbound queue length
}

// ErrInvalidConfig is returned by Validate for unusable values.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that every range is non-empty and every count usable.
func (c HyperspeedConfig) Validate() error {
	var errs []error

	if c.Track.SpeedZ < 0 {
		errs = append(errs, fmt.Errorf("track.speed_z must not be negative, got %v", c.Track.SpeedZ))
	}
	if c.Pool.Obstacles < 0 || c.Pool.Bonuses < 0 {
		errs = append(errs, fmt.Errorf("pool sizes must not be negative, got %d/%d", c.Pool.Obstacles, c.Pool.Bonuses))
	}
	if c.Pool.Obstacles+c.Pool.Bonuses == 0 {
		errs = append(errs, errors.New("pool must contain at least one entity"))
	}
	if !(c.Pool.SpawnAhead >= 0) {
		errs = append(errs, fmt.Errorf("pool.spawn_ahead must not be negative, got %v", c.Pool.SpawnAhead))
	}
	if !(c.Pool.SpawnDepth.Min >= 0) {
		errs = append(errs, fmt.Errorf("pool.spawn_depth.min must not be negative, got %v", c.Pool.SpawnDepth.Min))
	}
	for name, r := range map[string]Range{
		"pool.obstacle_scale": c.Pool.ObstacleScale,
		"pool.spread_x":       c.Pool.SpreadX,
		"pool.spawn_depth":    c.Pool.SpawnDepth,
		"pool.bonus_value":    c.Pool.BonusValue,
	} {
		if r.Empty() {
			errs = append(errs, fmt.Errorf("%s is empty: [%v, %v]", name, r.Min, r.Max))
		}
	}
	if c.Pool.BonusValue.Max <= 0 {
		errs = append(errs, fmt.Errorf("pool.bonus_value.max must be positive, got %v", c.Pool.BonusValue.Max))
	}
	if c.Player.StartHealth <= 0 {
		errs = append(errs, fmt.Errorf("player.start_health must be positive, got %d", c.Player.StartHealth))
	}
	if c.Player.ObstaclePenalty < 0 {
		errs = append(errs, fmt.Errorf("player.obstacle_penalty must not be negative, got %d", c.Player.ObstaclePenalty))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
