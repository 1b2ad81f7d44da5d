package birds

import (
	"slices"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// Per-tier power-up magnitudes, index 1..4.
var (
	wideCursorSeconds = [5]float64{0, 10, 20, 25, 50}
	wideCursorLanes   = [5]int{1, 3, 3, 5, 5}

	bounceBoostSeconds = [5]float64{0, 10, 20, 25, 50}
	bounceBoostLength  = [5]float64{0, 4, 4, 8, 12}

	suctionSeconds = [5]float64{0, 10, 20, 25, 50}
	suctionBoost   = [5]float64{0, 0, 0, 4, 8}

	tailwindSeconds = [5]float64{0, 10, 15, 20, 30}
	tailwindUp      = [5]int{0, 1, 2, 3, 3}
	tailwindDown    = [5]int{0, 1, 1, 2, 3}
)

// applyPowerUp activates a field power-up. Re-collecting replaces the
// running one.
func (w *World) applyPowerUp(kind LootKind, tier int) {
	tier = min(max(tier, 1), 4)
	p := &w.Power
	switch kind {
	case LootWideCursor:
		p.WideCursorFrames = w.framesFor(wideCursorSeconds[tier])
		p.WideCursorLanes = wideCursorLanes[tier]
	case LootBounceBoost:
		p.BounceBoostFrames = w.framesFor(bounceBoostSeconds[tier])
		p.BounceBoostSeconds = bounceBoostLength[tier]
	case LootSuction:
		p.SuctionFrames = w.framesFor(suctionSeconds[tier])
		p.SuctionBoostSeconds = suctionBoost[tier]
	case LootTailwind:
		p.TailwindFrames = w.framesFor(tailwindSeconds[tier])
		p.TailwindUp = tailwindUp[tier]
		p.TailwindDown = tailwindDown[tier]
	case LootShuffle:
		w.performShuffle(tier)
	default:
		return
	}
	w.ach.onPowerUsed(lootFamilyNames[kind], -1, 0)
}

// tickPowerUps counts the field power-ups down and resets the ones that
// ran out to their baseline.
func (w *World) tickPowerUps() {
	p := &w.Power
	if p.WideCursorFrames > 0 {
		if p.WideCursorFrames--; p.WideCursorFrames == 0 {
			p.WideCursorLanes = 1
		}
	}
	if p.BounceBoostFrames > 0 {
		if p.BounceBoostFrames--; p.BounceBoostFrames == 0 {
			p.BounceBoostSeconds = 0
		}
	}
	if p.SuctionFrames > 0 {
		if p.SuctionFrames--; p.SuctionFrames == 0 {
			p.SuctionBoostSeconds = 0
		}
	}
	if p.TailwindFrames > 0 {
		if p.TailwindFrames--; p.TailwindFrames == 0 {
			p.TailwindUp, p.TailwindDown = 0, 0
		}
	}
}

// restart sends a moved bird back to the starting line heading up.
func (w *World) restart(i int) {
	b := &w.Birds[i]
	if b.Lost || b.Egg {
		return
	}
	b.launch()
	b.PowerUsed = false
}

func distance(lane int) int { return core.Abs(lane - CenterLane) }

// performShuffle makes up to count greedy swaps pulling outer birds toward
// the center lane. An outer bird prefers the empty lane closest to center,
// then an inner bird, then any bird not yet moved.
func (w *World) performShuffle(count int) {
	moved := map[int]bool{}
	for range count {
		var living, lost []int
		for i := range w.Birds {
			switch {
			case w.Birds[i].Lost:
				if !moved[i] {
					lost = append(lost, i)
				}
			case !w.Birds[i].Egg:
				living = append(living, i)
			}
		}
		avail := slices.DeleteFunc(slices.Clone(living), func(i int) bool { return moved[i] })
		if len(avail) <= 1 {
			return
		}

		src := slices.MaxFunc(avail, func(a, b int) int {
			return distance(w.lanes[a]) - distance(w.lanes[b])
		})

		if len(lost) > 0 {
			dst := slices.MinFunc(lost, func(a, b int) int {
				return distance(w.lanes[a]) - distance(w.lanes[b])
			})
			w.lanes[src], w.lanes[dst] = w.lanes[dst], w.lanes[src]
			w.restart(src)
			moved[src], moved[dst] = true, true
			continue
		}

		var inner []int
		for _, i := range avail {
			if i != src && distance(w.lanes[i]) < distance(w.lanes[src]) {
				inner = append(inner, i)
			}
		}
		var dst int
		if len(inner) > 0 {
			dst = slices.MinFunc(inner, func(a, b int) int {
				return distance(w.lanes[a]) - distance(w.lanes[b])
			})
		} else {
			others := slices.DeleteFunc(avail, func(i int) bool { return i == src })
			dst = others[w.rng.Intn(len(others))]
		}
		w.lanes[src], w.lanes[dst] = w.lanes[dst], w.lanes[src]
		w.restart(src)
		w.restart(dst)
		moved[src], moved[dst] = true, true
	}
}
