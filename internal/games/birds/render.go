package birds

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// Sprites, two animation frames each.
var (
	birdUp   = [2][2]string{{" . ", "/W\\"}, {"_._", " W "}}
	birdDown = [2][2]string{{"\\M/", " ' "}, {"_M_", " ' "}}

	patchUp   = [2][2]string{{" . ", "\\M/"}, {" ' ", "/W\\"}}
	patchDown = [2][2]string{{"\\M/", " ' "}, {"/W\\", " . "}}

	batSprite = [2][2]string{{" _ ^^ _", "/|(;;)|\\"}, {"__ ^^ __", " /(;;)\\"}}
)

const (
	obstacleSprite = "***"
	eggGlyph       = '⬯'
	lifeFull       = '●'
	lifeEmpty      = '◌'
)

var lootGlyphs = map[LootKind]rune{
	LootWideCursor:  '↔',
	LootBounceBoost: '↺',
	LootSuction:     '⥥',
	LootTailwind:    '༄',
	LootShuffle:     '⇄',
}

var patchworkColors = [...]core.Color{core.ColorRed, core.ColorYellow, core.ColorBlue}

func birdColor(c BirdColor) core.Color {
	switch c {
	case Yellow:
		return core.ColorYellow
	case Red:
		return core.ColorRed
	case Blue:
		return core.ColorBlue
	case White:
		return core.ColorBrightWhite
	case Purple:
		return core.ColorMagenta
	case Orange:
		return core.ColorOrange
	case Clockwork:
		return core.ColorGray
	case Gold:
		return core.ColorGold
	case Stealth:
		return core.ColorDarkGray
	default:
		return core.ColorWhite
	}
}

var (
	obstacleColors = [5]core.Color{core.ColorDefault, core.ColorOrange, core.ColorYellow, core.ColorGreen, core.ColorBrightYellow}
	batColors      = [5]core.Color{core.ColorDefault, core.ColorBlue, core.ColorMagenta, core.ColorBrightMagenta, core.ColorBrightRed}
	rarityColors   = [4]core.Color{core.ColorWhite, core.ColorGreen, core.ColorBrightBlue, core.ColorBrightMagenta}
)

// layout places the field inside the screen.
type layout struct {
	ox, oy int // top-left cell of the field interior
}

func (l layout) at(x, y int) (int, int) { return l.ox + x, l.oy + y }

// Render draws the whole frame into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.screenTooSmall || g.world == nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH), core.ColorDefault)
		return
	}

	w := g.world
	boxX := max(0, (dst.Width()-(Width+2))/2)
	l := layout{ox: boxX + 1, oy: 3}

	renderHUD(dst, w, boxX)
	dst.DrawBox(core.NewRect(boxX, 2, Width+2, Height+2), core.ColorGray)

	renderStartLine(dst, w, l)
	renderLoot(dst, w, l)
	renderObstacles(dst, w, l)
	renderBats(dst, w, l)
	renderProjectiles(dst, w, l)
	renderBirds(dst, w, l)
	renderCursor(dst, w, l)

	footer := Height + 4
	if note := w.Notification(); note != "" {
		dst.DrawTextCentered(footer+1, note, core.ColorBrightYellow)
	}
	switch {
	case w.Over():
		dst.DrawTextCentered(l.oy+Height/2, " GAME OVER ", core.ColorBrightRed)
	case w.Paused():
		dst.DrawTextCentered(l.oy+Height/2, " PAUSED ", core.ColorBrightWhite)
	}
}

func renderHUD(dst *core.Screen, w *World, x int) {
	next := LevelThreshold(w.Level() + 1)
	head := fmt.Sprintf("SCORE: %d | LEVEL: %d | NEXT: %d | LIVES: ", int(w.Score()), w.Level(), next)
	dst.DrawText(x, 0, head, core.ColorBrightWhite)

	lx := x + len([]rune(head))
	total := max(w.Lives(), w.cfg.Rules.Lives)
	for i := range total {
		r, c := lifeEmpty, core.ColorDarkGray
		if i < w.Lives() {
			r, c = lifeFull, core.ColorBrightRed
		}
		dst.SetColored(lx+i, 0, r, c)
	}

	dst.DrawText(x, 1, powerStatus(w), core.ColorCyan)
}

// powerStatus lists the active field power-ups with their remaining seconds.
func powerStatus(w *World) string {
	secs := func(frames int) int { return int(float64(frames) * w.cfg.Timing.BaseSleep) }
	p := &w.Power
	var parts []string
	if p.WideCursor() {
		parts = append(parts, fmt.Sprintf("WIDE x%d %ds", p.WideCursorLanes, secs(p.WideCursorFrames)))
	}
	if p.BounceBoost() {
		parts = append(parts, fmt.Sprintf("BOOST %ds", secs(p.BounceBoostFrames)))
	}
	if p.Suction() {
		parts = append(parts, fmt.Sprintf("SUCTION %ds", secs(p.SuctionFrames)))
	}
	if p.Tailwind() {
		parts = append(parts, fmt.Sprintf("TAILWIND +%d/-%d %ds", p.TailwindUp, p.TailwindDown, secs(p.TailwindFrames)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("SWAP: %d pts", w.SwapCost())
	}
	return strings.Join(parts, "  ")
}

func renderStartLine(dst *core.Screen, w *World, l layout) {
	r := '-'
	if w.Power.Tailwind() {
		r = '^'
	}
	y := StartingLine + 2
	for x := 0; x < Width; x += 2 {
		sx, sy := l.at(x, y)
		dst.SetColored(sx, sy, r, core.ColorDarkGray)
	}
}

func renderLoot(dst *core.Screen, w *World, l layout) {
	for _, it := range w.Loot {
		x, y := l.at(LanePositions[it.Lane], it.Y)
		if it.Item.Kind == LootEgg {
			dst.SetColored(x, y, eggGlyph, birdColor(it.Item.Egg))
			continue
		}
		dst.SetColored(x, y, lootGlyphs[it.Item.Kind], rarityColors[it.Rarity])
	}
}

func renderObstacles(dst *core.Screen, w *World, l layout) {
	for _, o := range w.Obstacles {
		x, y := l.at(LanePositions[o.Lane]-1, o.Y)
		dst.DrawText(x, y, obstacleSprite, obstacleColors[o.Tier])
	}
}

func renderBats(dst *core.Screen, w *World, l layout) {
	anim := (w.Frame() / 3) % 2
	for _, b := range w.Bats {
		c := batColors[b.Tier]
		for row, line := range batSprite[anim] {
			x, y := l.at(b.X, b.Y+row)
			drawSprite(dst, x, y, line, c)
		}
	}
}

func renderProjectiles(dst *core.Screen, w *World, l layout) {
	for _, p := range w.Projectiles {
		x, y := l.at(p.X, p.Y)
		r := '⋅'
		if p.Powered {
			r = '•'
		}
		dst.SetColored(x, y, r, core.ColorBrightRed)
	}
}

func renderBirds(dst *core.Screen, w *World, l layout) {
	anim := (w.Frame() / 2) % 2
	for i := range w.Birds {
		b := &w.Birds[i]
		if !b.Live() || b.Y >= Height {
			continue
		}
		sprite := birdDown[anim]
		switch {
		case b.Color == Patchwork && b.Rising():
			sprite = patchUp[anim]
		case b.Color == Patchwork:
			sprite = patchDown[anim]
		case b.Rising():
			sprite = birdUp[anim]
		}

		c := birdColor(b.Color)
		switch {
		case b.Color == Blue && w.boost[i] > 0:
			c = core.ColorCyan
		case b.Color == Stealth && w.stealth[i] > 0:
			c = core.ColorWhite
		case w.scared[i] > 0:
			c = core.ColorDarkGray
		}

		lane := w.LaneOf(i)
		for row, line := range sprite {
			if b.Y+row < 0 || b.Y+row >= Height {
				continue
			}
			x, y := l.at(LanePositions[lane]-1, b.Y+row)
			if b.Color == Patchwork {
				for k, r := range line {
					if r != ' ' {
						dst.SetColored(x+k, y, r, patchworkColors[(k+row+anim)%len(patchworkColors)])
					}
				}
				continue
			}
			drawSprite(dst, x, y, line, c)
		}
	}
}

// renderCursor marks the lanes an UP press acts on and the swap selection
// below the field.
func renderCursor(dst *core.Screen, w *World, l layout) {
	y := l.oy + Height + 1
	for _, lane := range w.affectedLanes() {
		x, _ := l.at(LanePositions[lane], 0)
		dst.SetColored(x, y, '▲', core.ColorBrightWhite)
	}
	if s := w.Selected(); s >= 0 {
		x, _ := l.at(LanePositions[s], 0)
		dst.SetColored(x-1, y, '[', core.ColorBrightYellow)
		dst.SetColored(x+1, y, ']', core.ColorBrightYellow)
	}
}

// drawSprite writes line leaving spaces transparent.
func drawSprite(dst *core.Screen, x, y int, line string, c core.Color) {
	i := 0
	for _, r := range line {
		if r != ' ' {
			dst.SetColored(x+i, y, r, c)
		}
		i++
	}
}
