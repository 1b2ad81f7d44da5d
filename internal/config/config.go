// Package config loads tunables for the birds game from YAML.
package config

// BirdsConfig holds every tunable of a birds run.
type BirdsConfig struct {
	Timing  TimingConfig  `yaml:"timing"`
	Rules   RulesConfig   `yaml:"rules"`
	Spawner SpawnerConfig `yaml:"spawner"`
	Loot    LootConfig    `yaml:"loot"`
	Audio   AudioConfig   `yaml:"audio"`
}

// TimingConfig controls the frame clock. Durations elsewhere in the game are
// expressed in seconds and converted with BaseSleep, so BaseSleep is also the
// length of one "frame second".
type TimingConfig struct {
	BaseSleep           float64 `yaml:"base_sleep"`           // seconds per frame at level 0
	MinSleep            float64 `yaml:"min_sleep"`            // floor for the frame interval
	LevelSpeedup        float64 `yaml:"level_speedup"`        // interval multiplier per level
	DespawnSeconds      float64 `yaml:"despawn_seconds"`      // bat and loot lifetime
	NotificationSeconds float64 `yaml:"notification_seconds"` // how long a message stays up
}

// RulesConfig holds scoring and player-facing rules.
type RulesConfig struct {
	Lives            int      `yaml:"lives"`
	StartLane        int      `yaml:"start_lane"`
	SwapCostPerLevel int      `yaml:"swap_cost_per_level"`
	MaxEntities      int      `yaml:"max_entities"`
	StartingFlock    []string `yaml:"starting_flock"` // nine color names
}

// SpawnerConfig controls bat and obstacle cadence.
type SpawnerConfig struct {
	MaxBats         int `yaml:"max_bats"`
	BatIntervalMin  int `yaml:"bat_interval_min"`
	BatIntervalMax  int `yaml:"bat_interval_max"`
	BatGap          int `yaml:"bat_gap"`
	BatAttempts     int `yaml:"bat_attempts"`
	ObstacleBase    int `yaml:"obstacle_base"`
	ObstacleBaseMin int `yaml:"obstacle_base_min"`
	ObstacleStep    int `yaml:"obstacle_step"` // base frames removed per level
	ObstacleVar     int `yaml:"obstacle_var"`
	ObstacleVarMin  int `yaml:"obstacle_var_min"`
}

// LootConfig selects which power-up families can drop.
type LootConfig struct {
	Families []string `yaml:"families"`
}

// AudioConfig toggles background music.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
	BPM     int     `yaml:"bpm"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset; unknown strings give "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// KnownLootFamilies lists the power-up families the game implements.
var KnownLootFamilies = []string{"wide_cursor", "bounce_boost", "suction", "tailwind", "shuffle"}

// KnownColors lists valid starting flock colors.
var KnownColors = []string{"yellow", "red", "blue", "white", "purple", "orange", "clockwork", "patchwork", "gold", "stealth"}
