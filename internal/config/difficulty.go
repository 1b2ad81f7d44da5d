package config

// ApplyBirdsPreset adjusts cfg in place for a difficulty preset.
// Normal and the empty preset leave the loaded values untouched.
func ApplyBirdsPreset(cfg *BirdsConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.Lives += 2
		cfg.Rules.SwapCostPerLevel = cfg.Rules.SwapCostPerLevel * 3 / 4
		cfg.Spawner.MaxBats = max(1, cfg.Spawner.MaxBats-1)
		cfg.Spawner.ObstacleBase += 15
		cfg.Timing.LevelSpeedup = min(1, cfg.Timing.LevelSpeedup+0.04)
	case DifficultyHard:
		cfg.Rules.Lives = max(1, cfg.Rules.Lives-2)
		cfg.Rules.SwapCostPerLevel = cfg.Rules.SwapCostPerLevel * 5 / 4
		cfg.Spawner.MaxBats++
		cfg.Spawner.BatIntervalMin = max(30, cfg.Spawner.BatIntervalMin-40)
		cfg.Spawner.BatIntervalMax = max(cfg.Spawner.BatIntervalMin, cfg.Spawner.BatIntervalMax-40)
		cfg.Spawner.ObstacleBase = max(cfg.Spawner.ObstacleBaseMin, cfg.Spawner.ObstacleBase-15)
		cfg.Timing.LevelSpeedup = max(0.5, cfg.Timing.LevelSpeedup-0.03)
	}
}
