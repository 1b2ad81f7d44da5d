package birds

import (
	"slices"

	"github.com/vovakirdan/tui-birds/internal/core"
)

// stealthDamage is what a tangible stealth bird deals on contact.
const stealthDamage = 24

// damageBat hits bat j and pays out on a kill. It reports whether the bat died;
// a dead bat has already been removed from w.Bats.
func (w *World) damageBat(j, dmg int, byOrange bool) bool {
	b := &w.Bats[j]
	if byOrange {
		b.HP = 0
	} else {
		b.HP = max(0, b.HP-dmg)
	}
	if b.HP > 0 {
		return false
	}
	dead := *b
	w.Bats = slices.Delete(w.Bats, j, j+1)

	w.AddScore(float64(dead.MaxHP))
	w.dropLoot(nearestLane(dead.X+BatWidth/2), dead.Y, dead.Tier)
	if byOrange {
		w.ach.onSpecial(eventBatByOrange)
	}
	w.ach.onDestroyBat(dead.Tier)
	return true
}

// damageObstacle hits obstacle k; same contract as damageBat.
func (w *World) damageObstacle(k, dmg int, byOrange bool) bool {
	o := &w.Obstacles[k]
	if byOrange {
		o.HP = 0
	} else {
		o.HP = max(0, o.HP-dmg)
	}
	if o.HP > 0 {
		return false
	}
	dead := *o
	w.Obstacles = slices.Delete(w.Obstacles, k, k+1)

	w.AddScore(float64(dead.Tier * 2))
	w.dropLoot(dead.Lane, dead.Y, dead.Tier)
	w.ach.onDestroyObstacle()
	return true
}

func nearestLane(x int) int {
	best := 0
	for l := 1; l < NumLanes; l++ {
		if core.Abs(LanePositions[l]-x) < core.Abs(LanePositions[best]-x) {
			best = l
		}
	}
	return best
}

// updateObstacles moves obstacles down every fifth frame and drops the ones
// that reached the starting area.
func (w *World) updateObstacles() {
	kept := w.Obstacles[:0]
	for _, o := range w.Obstacles {
		if w.frame%5 == 0 {
			o.Y++
		}
		if o.Y >= StartingLine-1 || o.Y >= Height {
			continue
		}
		kept = append(kept, o)
	}
	w.Obstacles = kept
}

// updateBats slides bats sideways every third frame and lowers them toward
// their target row every fifth.
func (w *World) updateBats() {
	for j := range w.Bats {
		bat := &w.Bats[j]
		if w.frame%3 == 0 {
			nextX := bat.X + bat.Dir*2
			if w.batCanMove(j, nextX) {
				bat.X = nextX
				switch {
				case bat.X <= 0:
					bat.X = 0
					bat.Dir = 1
				case bat.X >= Width-8:
					bat.X = Width - 8
					bat.Dir = -1
				}
			} else {
				bat.Dir = -bat.Dir
			}
		}
		if w.frame%5 == 0 && bat.Y < bat.TargetY {
			bat.Y++
		}
	}
}

func (w *World) batCanMove(j, nextX int) bool {
	next := core.SpanOf(nextX, BatWidth)
	for k := range w.Bats {
		if k != j && next.Overlaps(w.Bats[k].xs()) {
			return false
		}
	}

	batY := w.Bats[j].Y
	for i := range w.Birds {
		b := &w.Birds[i]
		if !b.Live() || !next.Overlaps(laneSpan(w.lanes[i])) {
			continue
		}
		// one-frame lookahead on the bird's own movement clock
		speed := b.Speed
		if w.boost[i] != 0 {
			speed++
		}
		nextY := b.Y
		if w.frame%max(1, MaxSpeed-speed) == 0 {
			nextY += b.VY
		}
		if core.Abs(b.Y-batY) < 8 || core.Abs(nextY-batY) < 8 {
			return false
		}
	}
	return true
}

// batsCrushObstacles removes obstacles a bat has drifted into.
func (w *World) batsCrushObstacles() {
	for _, bat := range w.Bats {
		top, bottom := bat.Y, bat.Y+1
		kept := w.Obstacles[:0]
		for _, o := range w.Obstacles {
			ox := core.Around(LanePositions[o.Lane], 1)
			vertical := core.Abs(top-o.Y) <= 1 || core.Abs(bottom-o.Y) <= 1
			if bat.xs().Overlaps(ox) && vertical {
				continue
			}
			kept = append(kept, o)
		}
		w.Obstacles = kept
	}
}

// despawn expires bats and loot that have lived too long. An expiring nest
// egg takes its suspended orange bird with it.
func (w *World) despawn() {
	ttl := w.cfg.Timing.DespawnSeconds

	w.Bats = slices.DeleteFunc(w.Bats, func(b Bat) bool {
		return w.clock-b.Born > ttl
	})

	kept := w.Loot[:0]
	for _, l := range w.Loot {
		if w.clock-l.Born <= ttl {
			kept = append(kept, l)
			continue
		}
		if l.Nest {
			if i := w.BirdInLane(l.Lane); i >= 0 && w.Birds[i].Egg {
				w.loseLife(i)
			}
		}
	}
	w.Loot = kept
}

// tickEffects counts down boosts, slows, fear and stealth.
func (w *World) tickEffects() {
	for i := range w.Birds {
		switch {
		case w.boost[i] > 0:
			w.boost[i]--
			if w.boost[i] == 0 && w.Birds[i].Color == Blue {
				w.Birds[i].PowerUsed = false
			}
		case w.boost[i] < 0:
			w.boost[i]++
		}

		if w.scared[i] > 0 {
			w.scared[i]--
		}

		if w.stealth[i] > 0 {
			w.stealth[i]--
			if w.stealth[i] == 0 && w.prevSpeed[i] > 0 {
				w.Birds[i].Speed = w.prevSpeed[i]
				w.prevSpeed[i] = 0
			}
		}
	}

	// a falling scared blue bird regains courage passing a rising yellow
	for i := range w.Birds {
		b := &w.Birds[i]
		if b.Color != Blue || w.scared[i] == 0 || b.Lost || !b.Falling() {
			continue
		}
		for _, d := range [2]int{-1, 1} {
			j := w.BirdInLane(w.lanes[i] + d)
			if j < 0 || w.Birds[j].Lost {
				continue
			}
			if w.Birds[j].Color == Yellow && w.Birds[j].Rising() && core.Abs(b.Y-w.Birds[j].Y) <= 2 {
				w.scared[i] = 0
				break
			}
		}
	}
}

// updateProjectiles advances shots and resolves their hits.
func (w *World) updateProjectiles() {
	kept := w.Projectiles[:0]
	for _, p := range w.Projectiles {
		p.Y--
		if p.Y < 0 {
			continue
		}
		if w.projectileHit(p) {
			continue
		}
		kept = append(kept, p)
	}
	w.Projectiles = kept
}

func (w *World) projectileHit(p Projectile) bool {
	for j := range w.Bats {
		bat := &w.Bats[j]
		if bat.xs().Contains(p.X) && p.Y >= bat.Y && p.Y <= bat.Y+1 {
			w.damageBat(j, p.Damage, false)
			return true
		}
	}
	for k := range w.Obstacles {
		o := &w.Obstacles[k]
		if o.Lane == p.Lane && core.Abs(p.Y-o.Y) <= 1 {
			w.damageObstacle(k, p.Damage, false)
			return true
		}
	}
	return false
}

// stealthBurst lets tangible stealth birds grind through everything nearby.
func (w *World) stealthBurst() {
	for i := range w.Birds {
		b := &w.Birds[i]
		if b.Color != Stealth || w.stealth[i] == 0 || b.Lost {
			continue
		}
		lane := w.lanes[i]
		x := LanePositions[lane]

		w.Loot = slices.DeleteFunc(w.Loot, func(l Loot) bool {
			return !l.Nest && core.Abs(LanePositions[l.Lane]-x) <= 2 && core.Abs(l.Y-b.Y) <= 2
		})
		for j := len(w.Bats) - 1; j >= 0; j-- {
			if core.Abs(w.Bats[j].X-x) <= 6 && core.Abs(w.Bats[j].Y-b.Y) <= 2 {
				w.damageBat(j, stealthDamage, false)
			}
		}
		for k := len(w.Obstacles) - 1; k >= 0; k-- {
			if w.Obstacles[k].Lane == lane && core.Abs(w.Obstacles[k].Y-b.Y) <= 1 {
				w.damageObstacle(k, stealthDamage, false)
			}
		}
	}
}
