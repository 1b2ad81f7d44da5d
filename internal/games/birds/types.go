package birds

import (
	"strings"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// Field geometry.
const (
	Width        = 45
	Height       = 30
	NumLanes     = 9
	StartingLine = Height - 4
	BatWidth     = 9 // a bat covers x..x+8
	MaxSpeed     = 6 // move interval is max(1, MaxSpeed-speed)
	CenterLane   = 4
)

// GameVersion is reported with submitted scores.
const GameVersion = "0.5.0"

// LanePositions maps a lane index to its column on the field.
var LanePositions = [NumLanes]int{5, 9, 13, 17, 21, 25, 29, 33, 37}

// BirdColor is the bird's type. It decides speed and ability.
type BirdColor uint8

const (
	Yellow BirdColor = iota
	Red
	Blue
	White
	Purple
	Orange
	Clockwork
	Patchwork
	Gold
	Stealth
)

var colorNames = [...]string{"yellow", "red", "blue", "white", "purple", "orange", "clockwork", "patchwork", "gold", "stealth"}

func (c BirdColor) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// ParseColor maps a lower-case color name to a BirdColor.
func ParseColor(s string) (BirdColor, bool) {
	for i, n := range colorNames {
		if n == strings.ToLower(s) {
			return BirdColor(i), true
		}
	}
	return 0, false
}

// BaseSpeed is the speed a bird of this color starts with.
func (c BirdColor) BaseSpeed() int {
	switch c {
	case Yellow, Clockwork:
		return 2
	case Red, Purple, Patchwork, Stealth:
		return 3
	case Blue:
		return 4
	case White, Orange:
		return 5
	case Gold:
		return 6
	default:
		return 2
	}
}

// fieldCap limits how many live birds of a color may be on the field before
// its egg stops dropping. Zero means unlimited.
func (c BirdColor) fieldCap() int {
	switch c {
	case Patchwork, Purple, Clockwork:
		return 2
	case Gold, Stealth, White, Orange:
		return 1
	default:
		return 0
	}
}

// Bird is one of the nine player units. Its slot index is its identity.
type Bird struct {
	Color     BirdColor
	Y         int
	VY        int // -1 rising, +1 falling, 0 while suspended as an egg
	Speed     int
	Lost      bool
	PowerUsed bool
	Charge    int  // clockwork only
	Egg       bool // orange bird suspended after touching the ceiling
}

func (b *Bird) Rising() bool { return b.VY < 0 }
func (b *Bird) Falling() bool { return b.VY > 0 }

// Live reports whether the bird is on the field and moving.
func (b *Bird) Live() bool { return !b.Lost && !b.Egg }

// launch puts the bird back at the starting line heading up.
func (b *Bird) launch() {
	b.Y = StartingLine
	b.VY = -1
}

// Obstacle is a static block falling slowly down a lane.
type Obstacle struct {
	Lane  int
	Y     int
	Tier  int
	HP    int
	MaxHP int
}

var obstacleHP = [5]int{0, 4, 6, 10, 16}

// Bat is a wide enemy drifting sideways near the top.
type Bat struct {
	X       int
	Y       int
	Tier    int
	HP      int
	MaxHP   int
	Dir     int // -1 or +1
	TargetY int
	Born    float64 // simulated seconds
}

var batHP = [5]int{0, 16, 32, 64, 128}

func (b *Bat) xs() core.Span { return core.SpanOf(b.X, BatWidth) }

// Projectile is a red bird's shot travelling up one row per frame.
type Projectile struct {
	X       int
	Y       int
	Lane    int
	Damage  int
	Powered bool
}

// Rarity grades a loot drop.
type Rarity uint8

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	default:
		return "epic"
	}
}

// LootKind is the family of a loot item.
type LootKind uint8

const (
	LootEgg LootKind = iota
	LootWideCursor
	LootBounceBoost
	LootSuction
	LootTailwind
	LootShuffle
)

var lootFamilyNames = map[LootKind]string{
	LootWideCursor:  "wide_cursor",
	LootBounceBoost: "bounce_boost",
	LootSuction:     "suction",
	LootTailwind:    "tailwind",
	LootShuffle:     "shuffle",
}

// parseFamily maps a config family name to its kind.
func parseFamily(s string) (LootKind, bool) {
	for k, n := range lootFamilyNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Item is what a loot pickup grants.
type Item struct {
	Kind LootKind
	Egg  BirdColor // LootEgg only
	Tier int       // power-ups only, 1..4
}

var tierSuffix = [5]string{"", "", "+", "++", "_max"}

// String returns the canonical item name, e.g. "purple_egg" or "tailwind++".
func (it Item) String() string {
	if it.Kind == LootEgg {
		return it.Egg.String() + "_egg"
	}
	t := it.Tier
	if t < 1 || t > 4 {
		t = 1
	}
	return lootFamilyNames[it.Kind] + tierSuffix[t]
}

// Loot is an item lying on the field.
type Loot struct {
	Lane   int
	Y      int
	Item   Item
	Rarity Rarity
	Born   float64
	Nest   bool // the egg of a suspended orange bird
}

// PowerUps holds the field-wide timed power-ups.
type PowerUps struct {
	WideCursorFrames int
	WideCursorLanes  int

	BounceBoostFrames  int
	BounceBoostSeconds float64

	SuctionFrames       int
	SuctionBoostSeconds float64

	TailwindFrames int
	TailwindUp     int
	TailwindDown   int
}

func (p *PowerUps) WideCursor() bool { return p.WideCursorFrames > 0 }
func (p *PowerUps) BounceBoost() bool { return p.BounceBoostFrames > 0 }
func (p *PowerUps) Suction() bool { return p.SuctionFrames > 0 }
func (p *PowerUps) Tailwind() bool { return p.TailwindFrames > 0 }

// laneSpan is the horizontal reach of a bird flying in lane.
func laneSpan(lane int) core.Span {
	return core.Around(LanePositions[lane], 2)
}
