package birds

import "github.com/vovakirdan/tui-birds/internal/core"

// tangible reports whether bird i interacts with enemies and loot. Only an
// idle stealth bird is not.
func (w *World) tangible(i int) bool {
	return w.Birds[i].Color != Stealth || w.stealth[i] > 0
}

// effectiveSpeed folds boosts, fear and tailwind into the bird's speed.
func (w *World) effectiveSpeed(i int) int {
	b := &w.Birds[i]
	s := b.Speed
	switch {
	case w.boost[i] > 0 && b.Rising():
		s++
	case w.boost[i] < 0 && b.Falling():
		s = max(1, s-1)
	}
	if w.scared[i] > 0 && b.Falling() {
		s++
	}
	if w.Power.Tailwind() {
		switch {
		case b.Rising() && w.Power.TailwindUp != 0:
			s = min(MaxSpeed, s+w.Power.TailwindUp)
		case b.Falling() && w.Power.TailwindDown != 0:
			s = max(1, s-w.Power.TailwindDown)
		}
	}
	return s
}

// contactDamage is what bird i deals to whatever it flies into.
func (w *World) contactDamage(i, speed int) int {
	b := &w.Birds[i]
	switch {
	case b.Color == Stealth && w.stealth[i] > 0:
		return stealthDamage
	case b.Color == Gold:
		return 1
	case b.Color == Blue && b.PowerUsed:
		return speed + 1
	default:
		return speed
	}
}

// moveBirds advances every bird whose movement clock ticks this frame.
func (w *World) moveBirds() {
	for i := range w.Birds {
		b := &w.Birds[i]
		if !b.Live() {
			continue
		}
		speed := w.effectiveSpeed(i)
		if w.frame%max(1, MaxSpeed-speed) != 0 {
			continue
		}

		worth := float64(b.Speed)
		if b.Color == Gold {
			worth = 100
		}
		w.AddScore(worth * (0.5 + float64(Height-b.Y)/Height))

		if b.Rising() {
			w.rise(i, speed)
		} else {
			w.descend(i)
		}

		w.collectLoot(i)
		w.checkBounds(i)
	}
}

// rise moves bird i one row up unless something stops it.
func (w *World) rise(i, speed int) {
	b := &w.Birds[i]
	if !w.tangible(i) {
		b.Y += b.VY
		return
	}

	lane := w.lanes[i]
	next := b.Y + b.VY
	reach := laneSpan(lane)
	orange := b.Color == Orange
	dmg := w.contactDamage(i, speed)

	for j := range w.Bats {
		bat := w.Bats[j]
		if !bat.xs().Overlaps(reach) || next+2 < bat.Y || next > bat.Y+1 {
			continue
		}
		if b.Color != Stealth {
			w.scared[i] = max(1, w.framesFor(2))
			if bat.Tier >= 3 {
				w.boost[i] = w.framesFor(2)
			}
		}
		if w.damageBat(j, dmg, orange) {
			b.Y = next
			return
		}
		b.VY = 1
		b.Y = bat.Y + 2
		if b.Color == Blue {
			b.PowerUsed = false
		}
		return
	}

	for k := range w.Obstacles {
		o := w.Obstacles[k]
		if o.Lane != lane || core.Abs(next-o.Y) > 1 {
			continue
		}
		if w.damageObstacle(k, dmg, orange) {
			b.Y = next
			return
		}
		b.VY = 1
		if b.Color == Blue {
			b.PowerUsed = false
		}
		return
	}

	b.Y = next
}

// descend moves bird i one row down. Charged clockwork birds bounce back up
// at the starting line instead of passing it.
func (w *World) descend(i int) {
	b := &w.Birds[i]
	if b.Color == Clockwork && b.Y+b.VY >= StartingLine && b.Charge > 0 {
		b.launch()
		b.PowerUsed = false
		return
	}
	b.Y += b.VY
}

// checkBounds handles the ceiling and the floor.
func (w *World) checkBounds(i int) {
	b := &w.Birds[i]
	switch {
	case b.Y <= 1 && b.Color == Orange:
		w.layEgg(i)
	case b.Y <= 1:
		b.Y = 1
		b.VY = 1
		b.PowerUsed = false
	case b.Y >= Height-1:
		switch {
		case b.Color == Clockwork && b.Charge > 0, b.Color == Orange:
			b.launch()
			b.PowerUsed = false
		default:
			w.loseLife(i)
			w.sink.LogEvent("bird_lost", map[string]any{"color": b.Color.String(), "lives": w.lives})
		}
	}
}

// layEgg suspends an orange bird as an egg resting on the starting line of
// its lane.
func (w *World) layEgg(i int) {
	b := &w.Birds[i]
	b.Egg = true
	b.VY = 0
	b.Speed = 0
	b.Y = StartingLine
	b.PowerUsed = false
	w.clearEffects(i)
	w.Loot = append(w.Loot, Loot{
		Lane:   w.lanes[i],
		Y:      StartingLine,
		Item:   Item{Kind: LootEgg, Egg: Orange},
		Rarity: Epic,
		Born:   w.clock,
		Nest:   true,
	})
}

// hatch wakes a suspended orange bird.
func (w *World) hatch(i int) {
	b := &w.Birds[i]
	b.Egg = false
	b.Speed = Orange.BaseSpeed()
	b.launch()
	b.PowerUsed = false
	if k := w.nestIndex(w.lanes[i]); k >= 0 {
		w.Loot = append(w.Loot[:k], w.Loot[k+1:]...)
	}
	w.sink.LogEvent("egg_hatched", map[string]any{"lane": w.lanes[i]})
}

// decayClockwork drains one charge from every clockwork bird. A bird that
// runs dry drops at full speed.
func (w *World) decayClockwork() {
	period := max(1, w.framesFor(30))
	if w.frame%period != 0 {
		return
	}
	for i := range w.Birds {
		b := &w.Birds[i]
		if b.Color != Clockwork || b.Lost || b.Charge <= 0 {
			continue
		}
		b.Charge--
		if b.Charge > 0 {
			b.Speed = b.Charge
			continue
		}
		b.Speed = MaxSpeed
		b.VY = 1
		w.Notify("Clockwork freefall!")
	}
}

// autoBounceClockwork catches charged clockwork birds at the starting line.
func (w *World) autoBounceClockwork() {
	for i := range w.Birds {
		b := &w.Birds[i]
		if b.Color == Clockwork && b.Live() && b.Falling() && b.Y >= StartingLine && b.Charge > 0 {
			b.launch()
			b.PowerUsed = false
		}
	}
}
