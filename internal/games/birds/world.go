package birds

import (
	"math/rand"

	"github.com/vovakirdan/tui-birds/internal/config"
	"github.com/vovakirdan/tui-birds/internal/core"
)

type spawnKind uint8

const (
	spawnBat spawnKind = iota
	spawnObstacle
)

// spawn is a queued enemy waiting for room under the entity cap.
type spawn struct {
	kind     spawnKind
	bat      Bat
	obstacle Obstacle
}

type notification struct {
	text  string
	until int // frame
}

// World is the whole simulation state of one run. It is owned by a single
// goroutine; nothing in it is safe for concurrent use.
type World struct {
	cfg      config.BirdsConfig
	seed     int64
	rng      *rand.Rand
	sink     core.EventSink
	families []LootKind

	Birds [NumLanes]Bird
	lanes [NumLanes]int // lanes[bird] is the lane that bird slot flies in

	Obstacles   []Obstacle
	Bats        []Bat
	Projectiles []Projectile
	Loot        []Loot
	queue       []spawn

	// per-bird effect timers, indexed by bird slot
	boost     [NumLanes]int // >0 speed-up frames, <0 slow-down frames
	scared    [NumLanes]int
	stealth   [NumLanes]int
	prevSpeed [NumLanes]int // speed to restore when stealth ends

	Power PowerUps

	score float64
	lives int
	level int
	frame int
	clock float64 // simulated seconds, advanced by the frame interval

	obstacleTimer int
	batTimer      int

	cursor   int
	selected int // lane picked for a swap, -1 for none
	swaps    int
	paused   bool
	over     bool

	notes []notification
	ach   *tracker
}

// NewWorld builds a fresh world from cfg and a seed.
func NewWorld(cfg config.BirdsConfig, seed int64) *World {
	w := &World{
		cfg:  cfg,
		seed: seed,
		rng:  newRNG(seed),
		sink: core.NopSink{},
	}
	for _, name := range cfg.Loot.Families {
		if k, ok := parseFamily(name); ok {
			w.families = append(w.families, k)
		}
	}
	w.ach = newTracker(w)
	w.reset()
	return w
}

func (w *World) reset() {
	w.score = 0
	w.lives = w.cfg.Rules.Lives
	w.level = 1
	w.cursor = w.cfg.Rules.StartLane
	w.selected = -1
	w.Power = PowerUps{WideCursorLanes: 1}

	perm := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	w.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	for i := range w.Birds {
		col, ok := ParseColor(w.cfg.Rules.StartingFlock[i%len(w.cfg.Rules.StartingFlock)])
		if !ok {
			col = Yellow
		}
		w.Birds[i] = Bird{Color: col, Speed: col.BaseSpeed()}
		if col == Clockwork {
			w.Birds[i].Charge = 2
		}
		w.Birds[i].launch()
		w.lanes[i] = perm[i]
	}
}

// SetEventSink routes telemetry events; nil restores the no-op sink.
func (w *World) SetEventSink(s core.EventSink) {
	if s == nil {
		s = core.NopSink{}
	}
	w.sink = s
}

// Score returns the current score.
func (w *World) Score() float64 { return w.score }

func (w *World) Level() int { return w.level }
func (w *World) Lives() int { return w.lives }
func (w *World) Frame() int { return w.frame }
func (w *World) Cursor() int { return w.cursor }
func (w *World) Selected() int { return w.selected }
func (w *World) Paused() bool { return w.paused }
func (w *World) Over() bool { return w.over }
func (w *World) Swaps() int { return w.swaps }

// LaneOf returns the lane bird slot i flies in.
func (w *World) LaneOf(i int) int { return w.lanes[i] }

// BirdInLane returns the bird slot assigned to lane.
func (w *World) BirdInLane(lane int) int {
	for i, l := range w.lanes {
		if l == lane {
			return i
		}
	}
	return -1
}

// Notify queues an on-screen message.
func (w *World) Notify(text string) {
	frames := max(1, w.framesFor(w.cfg.Timing.NotificationSeconds))
	w.notes = append(w.notes, notification{text: text, until: w.frame + frames})
}

// Notification returns the message currently on screen, if any.
func (w *World) Notification() string {
	for _, n := range w.notes {
		if n.until > w.frame {
			return n.text
		}
	}
	return ""
}

func (w *World) dropNote(text string) {
	kept := w.notes[:0]
	for _, n := range w.notes {
		if n.text != text {
			kept = append(kept, n)
		}
	}
	w.notes = kept
}

func (w *World) pruneNotes() {
	kept := w.notes[:0]
	for _, n := range w.notes {
		if n.until > w.frame {
			kept = append(kept, n)
		}
	}
	w.notes = kept
}

// liveCount counts birds on the field (eggs included, lost excluded).
func (w *World) liveCount() int {
	n := 0
	for i := range w.Birds {
		if !w.Birds[i].Lost {
			n++
		}
	}
	return n
}

func (w *World) colorCount(c BirdColor) int {
	n := 0
	for i := range w.Birds {
		if !w.Birds[i].Lost && w.Birds[i].Color == c {
			n++
		}
	}
	return n
}

// affectedLanes returns the lanes an UP/DOWN press acts on.
func (w *World) affectedLanes() []int {
	if !w.Power.WideCursor() {
		return []int{w.cursor}
	}
	half := w.Power.WideCursorLanes / 2
	var lanes []int
	for l := w.cursor - half; l <= w.cursor+half; l++ {
		if l >= 0 && l < NumLanes {
			lanes = append(lanes, l)
		}
	}
	return lanes
}

// loseLife marks bird i lost and ends the run when no lives remain.
func (w *World) loseLife(i int) {
	b := &w.Birds[i]
	b.Lost = true
	b.Egg = false
	b.Y = Height - 1
	w.lives--
	if w.lives <= 0 {
		w.over = true
	}
}
