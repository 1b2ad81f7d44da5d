package birds

import (
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vovakirdan/tui-birds/internal/registry"
)

// Snapshot is a copy of the world state for crash reports and replay checks.
type Snapshot struct {
	Version  string  `msgpack:"version"`
	Frame    int     `msgpack:"frame"`
	Clock    float64 `msgpack:"clock"`
	Score    float64 `msgpack:"score"`
	Level    int     `msgpack:"level"`
	Lives    int     `msgpack:"lives"`
	Cursor   int     `msgpack:"cursor"`
	Selected int     `msgpack:"selected"`
	Swaps    int     `msgpack:"swaps"`
	Paused   bool    `msgpack:"paused"`
	Over     bool    `msgpack:"over"`

	Birds [NumLanes]Bird `msgpack:"birds"`
	Lanes [NumLanes]int  `msgpack:"lanes"`

	Boost   [NumLanes]int `msgpack:"boost"`
	Scared  [NumLanes]int `msgpack:"scared"`
	Stealth [NumLanes]int `msgpack:"stealth"`

	Obstacles   []Obstacle   `msgpack:"obstacles"`
	Bats        []Bat        `msgpack:"bats"`
	Projectiles []Projectile `msgpack:"projectiles"`
	Loot        []Loot       `msgpack:"loot"`
	Queued      int          `msgpack:"queued"`
	Power       PowerUps     `msgpack:"power"`

	Unlocked []string `msgpack:"unlocked"`
	Seed     int64    `msgpack:"seed"`
}

// Snapshot returns a deep copy of the current state.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Version:     GameVersion,
		Frame:       w.frame,
		Clock:       w.clock,
		Score:       w.score,
		Level:       w.level,
		Lives:       w.lives,
		Cursor:      w.cursor,
		Selected:    w.selected,
		Swaps:       w.swaps,
		Paused:      w.paused,
		Over:        w.over,
		Birds:       w.Birds,
		Lanes:       w.lanes,
		Boost:       w.boost,
		Scared:      w.scared,
		Stealth:     w.stealth,
		Obstacles:   append([]Obstacle(nil), w.Obstacles...),
		Bats:        append([]Bat(nil), w.Bats...),
		Projectiles: append([]Projectile(nil), w.Projectiles...),
		Loot:        append([]Loot(nil), w.Loot...),
		Queued:      len(w.queue),
		Power:       w.Power,
		Unlocked:    w.Unlocked(),
		Seed:        w.seed,
	}
}

// Encode serializes the snapshot with msgpack.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeSnapshot parses bytes produced by Encode.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}

func mix(h uint64, v int) uint64 {
	return h*31 + uint64(v) //#nosec G115 -- hash computation
}

func mixBool(h uint64, b bool) uint64 {
	if b {
		return mix(h, 1)
	}
	return mix(h, 0)
}

// Hash folds the snapshot into one number for determinism tests.
func (s *Snapshot) Hash() uint64 {
	h := uint64(s.Frame) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(s.Score)
	h = h*31 + math.Float64bits(s.Clock)
	for _, v := range []int{s.Level, s.Lives, s.Cursor, s.Selected, s.Swaps, s.Queued} {
		h = mix(h, v)
	}
	h = mixBool(h, s.Paused)
	h = mixBool(h, s.Over)

	for i, b := range s.Birds {
		h = mix(h, int(b.Color))
		h = mix(h, b.Y)
		h = mix(h, b.VY)
		h = mix(h, b.Speed)
		h = mix(h, b.Charge)
		h = mixBool(h, b.Lost)
		h = mixBool(h, b.PowerUsed)
		h = mixBool(h, b.Egg)
		h = mix(h, s.Lanes[i])
		h = mix(h, s.Boost[i])
		h = mix(h, s.Scared[i])
		h = mix(h, s.Stealth[i])
	}
	for _, o := range s.Obstacles {
		h = mix(mix(mix(h, o.Lane), o.Y), o.HP)
	}
	for _, b := range s.Bats {
		h = mix(mix(mix(mix(h, b.X), b.Y), b.HP), b.Dir)
	}
	for _, p := range s.Projectiles {
		h = mix(mix(h, p.X), p.Y)
	}
	for _, l := range s.Loot {
		h = mix(mix(mix(h, l.Lane), l.Y), int(l.Item.Kind))
	}
	h = mix(h, s.Power.WideCursorFrames)
	h = mix(h, s.Power.TailwindFrames)
	h = mix(h, len(s.Unlocked))
	return mix(h, int(s.Seed))
}

var _ registry.Snapshotter = (*Game)(nil)

// SnapshotBytes encodes the running world for a crash report.
func (g *Game) SnapshotBytes() ([]byte, error) {
	if g.world == nil {
		return nil, nil
	}
	snap := g.world.Snapshot()
	return snap.Encode()
}
