// Package registry maps game ids to factories. Games register in init() so
// the command line and the SSH server can create them by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// Game is implemented by every playable simulation. Implementations are pure:
// no terminal, no network, no wall clock.
type Game interface {
	// ID is the stable identifier used for storage and the CLI.
	ID() string
	Title() string

	// Reset starts a fresh run.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by exactly one frame.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current frame into a cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Observable games accept a sink for gameplay events and achievement unlocks.
type Observable interface {
	SetEventSink(sink core.EventSink)
}

// Snapshotter games can serialize their world state for crash reports.
type Snapshotter interface {
	SnapshotBytes() ([]byte, error)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory. It panics on duplicate ids.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered games sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(factories))
	for id := range factories {
		out = append(out, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create instantiates a registered game.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}
