package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the per-user directory under $HOME.
const ConfigDirName = ".birds"

// LoadBirds loads the game configuration.
// Search order: customPath -> ~/.birds/configs/birds.yaml -> ./configs/birds.yaml -> embedded default.
// Files are decoded over the built-in defaults, so partial files are fine.
func LoadBirds(customPath string) (BirdsConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBirdsConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(data)
		if err != nil {
			return DefaultBirdsConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("birds.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decode(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "birds.yaml")); err == nil {
		if cfg, err := decode(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := decode(defaultBirdsYAML)
	if err != nil {
		return DefaultBirdsConfig(), nil // embedded file is broken; hardcoded values still work
	}
	return cfg, nil
}

func decode(data []byte) (BirdsConfig, error) {
	cfg := DefaultBirdsConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid field, joined.
func (c BirdsConfig) Validate() error {
	var errs []error

	if c.Timing.BaseSleep <= 0 {
		errs = append(errs, errors.New("timing.base_sleep must be positive"))
	}
	if c.Timing.MinSleep <= 0 || c.Timing.MinSleep > c.Timing.BaseSleep {
		errs = append(errs, errors.New("timing.min_sleep must be in (0, base_sleep]"))
	}
	if c.Timing.LevelSpeedup <= 0 || c.Timing.LevelSpeedup > 1 {
		errs = append(errs, errors.New("timing.level_speedup must be in (0, 1]"))
	}
	if c.Rules.Lives <= 0 {
		errs = append(errs, errors.New("rules.lives must be positive"))
	}
	if c.Rules.StartLane < 0 || c.Rules.StartLane > 8 {
		errs = append(errs, errors.New("rules.start_lane must be in 0..8"))
	}
	if len(c.Rules.StartingFlock) != 9 {
		errs = append(errs, fmt.Errorf("rules.starting_flock needs 9 birds, got %d", len(c.Rules.StartingFlock)))
	}
	for _, col := range c.Rules.StartingFlock {
		if !slices.Contains(KnownColors, col) {
			errs = append(errs, fmt.Errorf("rules.starting_flock: unknown color %q", col))
		}
	}
	if c.Spawner.BatIntervalMin > c.Spawner.BatIntervalMax {
		errs = append(errs, errors.New("spawner.bat_interval_min exceeds bat_interval_max"))
	}
	for _, fam := range c.Loot.Families {
		if !slices.Contains(KnownLootFamilies, fam) {
			errs = append(errs, fmt.Errorf("loot.families: unknown family %q", fam))
		}
	}
	return errors.Join(errs...)
}

// UserDir returns ~/.birds, or "" when the home directory is unknown.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDirName)
}

func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}
