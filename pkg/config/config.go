// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GameConfig contains configuration for one cannon-shooter round
type GameConfig struct {
	RoundTime       float64       `json:"roundTime"` // seconds, 0 disables the timer
	MinPower        float64       `json:"minPower"`
	MaxPower        float64       `json:"maxPower"`
	PlayerMaxHealth int           `json:"playerMaxHealth"`
	PlayerHitRadius float64       `json:"playerHitRadius"`
	EnemyShotDamage int           `json:"enemyShotDamage"`
	GuardHitScore   int           `json:"guardHitScore"`
	Chests          []ChestConfig `json:"chests"`
	Guards          GuardConfig   `json:"guards"`
	Boss            BossConfig    `json:"boss"`
}

// ChestConfig places one collectible chest
type ChestConfig struct {
	X             float64 `json:"x"`
	Z             float64 `json:"z"`
	CaptureRadius float64 `json:"captureRadius"`
}

// GuardConfig tunes the orbiting guards spawned around each chest
type GuardConfig struct {
	PerChest        int     `json:"perChest"`
	OrbitRadius     float64 `json:"orbitRadius"`
	OrbitSpeed      float64 `json:"orbitSpeed"`
	DetectionRadius float64 `json:"detectionRadius"`
	ShootInterval   float64 `json:"shootInterval"`
	ShotSpeed       float64 `json:"shotSpeed"`
	HullHalfExtent  float64 `json:"hullHalfExtent"`
	Respawn         bool    `json:"respawn"`
	RespawnDelay    float64 `json:"respawnDelay"` // seconds
}

// BossConfig tunes the optional patrol boss
type BossConfig struct {
	Enabled         bool    `json:"enabled"`
	X               float64 `json:"x"`
	Z               float64 `json:"z"`
	PatrolRadius    float64 `json:"patrolRadius"`
	PatrolSpeed     float64 `json:"patrolSpeed"`
	DetectionRadius float64 `json:"detectionRadius"`
	ShootInterval   float64 `json:"shootInterval"`
	ShotSpeed       float64 `json:"shotSpeed"`
	MaxHits         int     `json:"maxHits"`
	HullHalfExtent  float64 `json:"hullHalfExtent"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the simulation cannot run with
func (c *GameConfig) Validate() error {
	if c.MinPower <= 0 || c.MaxPower <= c.MinPower {
		return fmt.Errorf("power range [%v, %v] must be positive and increasing", c.MinPower, c.MaxPower)
	}
	if c.PlayerMaxHealth <= 0 {
		return fmt.Errorf("playerMaxHealth must be positive, got %d", c.PlayerMaxHealth)
	}
	if c.PlayerHitRadius <= 0 {
		return fmt.Errorf("playerHitRadius must be positive, got %v", c.PlayerHitRadius)
	}
	if len(c.Chests) == 0 {
		return fmt.Errorf("at least one chest is required")
	}
	if c.Guards.PerChest < 0 {
		return fmt.Errorf("guards.perChest must not be negative, got %d", c.Guards.PerChest)
	}
	if c.Guards.ShootInterval <= 0 {
		return fmt.Errorf("guards.shootInterval must be positive, got %v", c.Guards.ShootInterval)
	}
	if c.Boss.Enabled && c.Boss.MaxHits <= 0 {
		return fmt.Errorf("boss.maxHits must be positive when the boss is enabled, got %d", c.Boss.MaxHits)
	}
	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		RoundTime:       120,
		MinPower:        10,
		MaxPower:        40,
		PlayerMaxHealth: 100,
		PlayerHitRadius: 2.5,
		EnemyShotDamage: 10,
		GuardHitScore:   10,
		Chests: []ChestConfig{
			{X: 30, Z: 0, CaptureRadius: 3},
			{X: -20, Z: 25, CaptureRadius: 3},
			{X: -15, Z: -30, CaptureRadius: 3},
		},
		Guards: GuardConfig{
			PerChest:        3,
			OrbitRadius:     8,
			OrbitSpeed:      0.6,
			DetectionRadius: 35,
			ShootInterval:   7.0,
			ShotSpeed:       18,
			HullHalfExtent:  1.2,
			Respawn:         false,
			RespawnDelay:    6,
		},
		Boss: BossConfig{
			Enabled:         true,
			X:               0,
			Z:               45,
			PatrolRadius:    12,
			PatrolSpeed:     0.5,
			DetectionRadius: 45,
			ShootInterval:   5.0,
			ShotSpeed:       22,
			MaxHits:         4,
			HullHalfExtent:  2.0,
		},
	}
}
