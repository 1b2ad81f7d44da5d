// Package birds implements the nine-lane birds arcade game: the world
// simulation, its achievement tracker and a renderer into core.Screen.
package birds

import (
	"time"

	"github.com/vovakirdan/tui-birds/internal/config"
	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/registry"
)

// ID is the registry id of the game.
const ID = "birds"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset; unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game adapts a World to the registry.Game interface.
type Game struct {
	world   *World
	cfg     config.BirdsConfig
	fixed   bool // cfg was given by the caller and is not reloaded on Reset
	sink    core.EventSink
	runtime core.RuntimeConfig

	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

var (
	_ registry.Game       = (*Game)(nil)
	_ registry.Observable = (*Game)(nil)
)

// New creates a game that loads its config on Reset.
func New() *Game {
	return &Game{sink: core.NopSink{}}
}

// NewWithConfig creates a game that always runs with cfg.
func NewWithConfig(cfg config.BirdsConfig) *Game {
	return &Game{cfg: cfg, fixed: true, sink: core.NopSink{}}
}

func (g *Game) ID() string { return ID }

func (g *Game) Title() string { return "Birds" }

// Reset starts a new run with the runtime seed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if !g.fixed {
		cfg, err := config.LoadBirds(configPath)
		if err != nil {
			cfg = config.DefaultBirdsConfig()
		}
		if difficultyPreset != "" {
			config.ApplyBirdsPreset(&cfg, difficultyPreset)
		}
		g.cfg = cfg
	}

	g.minScreenW = Width + 2
	g.minScreenH = Height + 6
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.world = NewWorld(g.cfg, runtime.Seed)
	g.world.SetEventSink(g.sink)
	g.sink.LogEvent("session_start", map[string]any{
		"seed":       runtime.Seed,
		"version":    GameVersion,
		"difficulty": string(difficultyPreset),
	})
}

// Resize updates the screen size check without restarting the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW, g.runtime.ScreenH = w, h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
}

// Step advances one frame. Input is ignored while the window is too small.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		in = core.NewInputFrame()
		if !g.world.Paused() {
			in.Set(core.ActionPause)
		}
	}
	next := g.world.Step(in)
	return core.StepResult{State: g.State(), NextTick: next}
}

// State reports the externally visible status.
func (g *Game) State() core.GameState {
	if g.world == nil {
		return core.GameState{}
	}
	w := g.world
	return core.GameState{
		Score:    int(w.Score()),
		Level:    w.Level(),
		Lives:    w.Lives(),
		GameOver: w.Over(),
		Paused:   w.Paused(),
		Unlocked: w.Unlocked(),
	}
}

// SetEventSink routes gameplay events, also for the running world.
func (g *Game) SetEventSink(s core.EventSink) {
	if s == nil {
		s = core.NopSink{}
	}
	g.sink = s
	if g.world != nil {
		g.world.SetEventSink(s)
	}
}

// Elapsed is the simulated play time of the current run.
func (g *Game) Elapsed() time.Duration {
	if g.world == nil {
		return 0
	}
	return g.world.Elapsed()
}

// Swaps counts the lane swaps of the current run.
func (g *Game) Swaps() int {
	if g.world == nil {
		return 0
	}
	return g.world.Swaps()
}

// World exposes the running simulation.
func (g *Game) World() *World { return g.world }

// Config returns the configuration of the current run.
func (g *Game) Config() config.BirdsConfig { return g.cfg }

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
