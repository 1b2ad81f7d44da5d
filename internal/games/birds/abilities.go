package birds

import (
	"fmt"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// hatchChance is the probability that UP wakes a suspended orange egg.
const hatchChance = 0.05

// handleInput applies one frame of player input. Pause is handled first;
// while paused nothing else acts.
func (w *World) handleInput(in core.InputFrame) {
	if in.Has(core.ActionPause) {
		w.paused = !w.paused
		if w.paused {
			w.Notify("PAUSED")
		} else {
			w.dropNote("PAUSED")
			w.Notify("RESUMED")
		}
	}
	if w.paused {
		return
	}

	if in.Has(core.ActionLeft) {
		w.cursor = max(0, w.cursor-1)
	}
	if in.Has(core.ActionRight) {
		w.cursor = min(NumLanes-1, w.cursor+1)
	}
	if in.Has(core.ActionSwap) {
		w.pressSwap()
	}
	if in.Has(core.ActionUp) {
		for _, lane := range w.affectedLanes() {
			w.pressUp(lane)
		}
	}
	if in.Has(core.ActionDown) && w.Power.Suction() {
		for _, lane := range w.affectedLanes() {
			w.pullDown(lane)
		}
	}
}

// SwapCost is the price of the next swap at the current level.
func (w *World) SwapCost() int {
	return w.cfg.Rules.SwapCostPerLevel * w.level
}

// pressSwap selects the cursor lane or swaps it with the selected one.
func (w *World) pressSwap() {
	switch {
	case w.selected < 0:
		w.selected = w.cursor
		return
	case w.selected == w.cursor:
		w.selected = -1
		return
	}

	from, to := w.selected, w.cursor
	w.selected = -1
	cost := w.SwapCost()
	if w.score < float64(cost) {
		w.Notify(fmt.Sprintf("Swap needs %d points", cost))
		return
	}
	a, b := w.BirdInLane(from), w.BirdInLane(to)
	if a < 0 || b < 0 {
		return
	}

	w.DeductScore(float64(cost))
	w.swaps++
	w.ach.onSwap(w.swaps)
	w.sink.LogEvent("swap", map[string]any{"from": from, "to": to, "cost": cost})

	// a nest travels with its egg; look both up before moving either
	nestA, nestB := -1, -1
	if w.Birds[a].Egg {
		nestA = w.nestIndex(w.lanes[a])
	}
	if w.Birds[b].Egg {
		nestB = w.nestIndex(w.lanes[b])
	}
	w.lanes[a], w.lanes[b] = w.lanes[b], w.lanes[a]
	if nestA >= 0 {
		w.Loot[nestA].Lane = w.lanes[a]
	}
	if nestB >= 0 {
		w.Loot[nestB].Lane = w.lanes[b]
	}
	w.restart(a)
	w.restart(b)
}

// pressUp bounces, hatches or triggers the power of the bird in lane.
func (w *World) pressUp(lane int) {
	i := w.BirdInLane(lane)
	if i < 0 || w.Birds[i].Lost {
		return
	}
	b := &w.Birds[i]

	switch {
	case b.Egg:
		if w.rng.Float64() < hatchChance {
			w.hatch(i)
		}
	case w.scared[i] > 0 && b.Color != Purple:
		// too frightened to listen
	case b.Falling():
		w.bounce(i)
		if b.Color == Clockwork && b.Charge == 0 {
			b.Charge = 1
			b.Speed = 1
		}
		if w.Power.BounceBoost() && w.boost[i] == 0 {
			w.boost[i] = w.framesFor(w.Power.BounceBoostSeconds)
		}
	case b.Rising() && !b.PowerUsed:
		w.usePower(i)
	}
}

// bounce turns bird i upward, re-arms its power and logs the action.
func (w *World) bounce(i int) {
	b := &w.Birds[i]
	b.VY = -1
	b.PowerUsed = false
	w.ach.record(actionBounce, w.lanes[i], b.Color)
}

// usePower consumes the power of rising bird i and applies it.
func (w *World) usePower(i int) {
	b := &w.Birds[i]
	b.PowerUsed = true
	lane := w.lanes[i]
	w.ach.onPowerUsed(b.Color.String(), lane, b.Color)

	switch b.Color {
	case Yellow:
		w.yellowPower(lane, false)
	case Red, Purple:
		w.fire(i, Red, Purple, Patchwork)
	case Blue:
		w.boost[i] = w.framesFor(3)
	case White:
		w.whitePower(lane)
	case Clockwork:
		b.Charge = min(3, b.Charge+1)
		b.Speed = b.Charge
	case Stealth:
		w.stealth[i] = max(1, w.framesFor(2))
		w.prevSpeed[i] = b.Speed
		b.Speed = MaxSpeed
		w.ach.record(actionStealth, lane, b.Color)
	}
}

// neighbour returns the live bird flying in lane, or -1.
func (w *World) neighbour(lane int) int {
	if lane < 0 || lane >= NumLanes {
		return -1
	}
	j := w.BirdInLane(lane)
	if j < 0 || w.Birds[j].Lost || w.Birds[j].Egg {
		return -1
	}
	return j
}

// yellowPower bounces falling neighbours that can follow a yellow lead and
// slows the others for 3s. From a white cascade only plain yellows follow
// and scared birds are left alone.
func (w *World) yellowPower(lane int, cascade bool) {
	for _, d := range [2]int{-1, 1} {
		j := w.neighbour(lane + d)
		if j < 0 || !w.Birds[j].Falling() {
			continue
		}
		adj := &w.Birds[j]
		if cascade && w.scared[j] > 0 && adj.Color != Purple {
			continue
		}
		follows := adj.Color == Yellow || (!cascade && adj.Color == Patchwork)
		if follows {
			w.bounce(j)
		} else {
			w.boost[j] = -w.framesFor(3)
		}
	}
}

// fire launches a projectile from bird i. Each rising neighbour of one of
// the allies colors adds a point of damage.
func (w *World) fire(i int, allies ...BirdColor) {
	lane := w.lanes[i]
	bonus := 0
	for _, d := range [2]int{-1, 1} {
		j := w.neighbour(lane + d)
		if j < 0 || !w.Birds[j].Rising() {
			continue
		}
		for _, c := range allies {
			if w.Birds[j].Color == c {
				bonus++
				break
			}
		}
	}
	w.Projectiles = append(w.Projectiles, Projectile{
		X:       LanePositions[lane],
		Y:       w.Birds[i].Y,
		Lane:    lane,
		Damage:  1 + bonus,
		Powered: bonus > 0,
	})
	if bonus > 0 {
		w.ach.onSpecial(eventAdjacentRed)
	}
}

// whitePower reaches two lanes either side: falling birds bounce and rising
// birds with an armed power fire it.
func (w *World) whitePower(lane int) {
	for _, d := range [4]int{-2, -1, 1, 2} {
		j := w.neighbour(lane + d)
		if j < 0 {
			continue
		}
		adj := &w.Birds[j]
		switch {
		case adj.Falling():
			if w.scared[j] > 0 && adj.Color != Purple {
				continue
			}
			w.bounce(j)
		case adj.Rising() && !adj.PowerUsed:
			w.cascade(j)
		}
	}
}

// cascade fires the power of a bird triggered by a white bird. Only the
// yellow, red and blue powers carry over.
func (w *World) cascade(j int) {
	adj := &w.Birds[j]
	adj.PowerUsed = true
	lane := w.lanes[j]
	w.ach.onPowerUsed(adj.Color.String(), lane, adj.Color)
	switch adj.Color {
	case Yellow:
		w.yellowPower(lane, true)
	case Red:
		w.fire(j, Red)
	case Blue:
		w.boost[j] = w.framesFor(5)
	}
}

// pullDown drags a rising bird in lane back down while suction is active.
func (w *World) pullDown(lane int) {
	i := w.neighbour(lane)
	if i < 0 || !w.Birds[i].Rising() {
		return
	}
	w.Birds[i].VY = 1
	if s := w.Power.SuctionBoostSeconds; s > 0 && w.boost[i] == 0 {
		w.boost[i] = w.framesFor(s)
	}
	w.ach.record(actionSuction, lane, w.Birds[i].Color)
}
