package config

import (
	_ "embed"
)

//go:embed defaults/birds.yaml
var defaultBirdsYAML []byte

// DefaultBirdsConfig returns the built-in configuration.
func DefaultBirdsConfig() BirdsConfig {
	return BirdsConfig{
		Timing: TimingConfig{
			BaseSleep:           0.2,
			MinSleep:            0.02,
			LevelSpeedup:        0.88,
			DespawnSeconds:      60,
			NotificationSeconds: 3,
		},
		Rules: RulesConfig{
			Lives:            5,
			StartLane:        2,
			SwapCostPerLevel: 200,
			MaxEntities:      50,
			StartingFlock: []string{
				"yellow", "yellow", "yellow", "yellow",
				"red", "red", "red",
				"blue", "blue",
			},
		},
		Spawner: SpawnerConfig{
			MaxBats:         2,
			BatIntervalMin:  120,
			BatIntervalMax:  220,
			BatGap:          15,
			BatAttempts:     20,
			ObstacleBase:    60,
			ObstacleBaseMin: 15,
			ObstacleStep:    4,
			ObstacleVar:     30,
			ObstacleVarMin:  10,
		},
		Loot: LootConfig{
			Families: []string{"wide_cursor", "tailwind", "shuffle"},
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.3,
			BPM:     120,
		},
	}
}
