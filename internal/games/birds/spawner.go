package birds

import "github.com/vovakirdan/tui-birds/internal/core"

// tierWeights returns tier 1..4 weights for the level; bats skew a little
// harder than obstacles in the middle levels.
func tierWeights(level int, bats bool) []int {
	switch {
	case level <= 2:
		return []int{70, 20, 8, 2}
	case level <= 4 && bats:
		return []int{50, 30, 15, 5}
	case level <= 4:
		return []int{55, 28, 13, 4}
	case level <= 7 && bats:
		return []int{30, 35, 25, 10}
	case level <= 7:
		return []int{35, 35, 20, 10}
	case bats:
		return []int{15, 30, 35, 20}
	default:
		return []int{20, 30, 30, 20}
	}
}

func (w *World) rollTier(bats bool) int {
	return weighted(w.rng, tierWeights(w.level, bats)) + 1
}

// entityCount is what counts against the admission cap.
func (w *World) entityCount() int {
	n := len(w.Obstacles) + len(w.Bats)
	for i := range w.Birds {
		if !w.Birds[i].Lost {
			n++
		}
	}
	return n
}

// admitSpawn moves at most one queued enemy onto the field.
func (w *World) admitSpawn() {
	if len(w.queue) == 0 || w.entityCount() >= w.cfg.Rules.MaxEntities {
		return
	}
	s := w.queue[0]
	w.queue = w.queue[1:]
	switch s.kind {
	case spawnBat:
		s.bat.Born = w.clock
		w.Bats = append(w.Bats, s.bat)
	case spawnObstacle:
		w.Obstacles = append(w.Obstacles, s.obstacle)
	}
}

// queueTail reports whether the last two queued entries are both kind.
func (w *World) queueTail(kind spawnKind) bool {
	n := len(w.queue)
	return n >= 2 && w.queue[n-1].kind == kind && w.queue[n-2].kind == kind
}

func (w *World) batTargetY() int {
	switch {
	case w.level <= 3:
		return randRange(w.rng, 5, 8)
	case w.level <= 6:
		return randRange(w.rng, 8, 10)
	default:
		return randRange(w.rng, 10, 12)
	}
}

// batSpawnX looks for a column far enough from every live and queued bat.
func (w *World) batSpawnX() (int, bool) {
	sc := w.cfg.Spawner
	for range sc.BatAttempts {
		x := randRange(w.rng, 1, Width-BatWidth)
		free := true
		for _, b := range w.Bats {
			if core.Abs(x-b.X) < sc.BatGap {
				free = false
				break
			}
		}
		for _, q := range w.queue {
			if q.kind == spawnBat && core.Abs(x-q.bat.X) < sc.BatGap {
				free = false
				break
			}
		}
		if free {
			return x, true
		}
	}
	return 0, false
}

func (w *World) maybeQueueBat() {
	sc := w.cfg.Spawner
	if len(w.Bats) >= sc.MaxBats || w.batTimer <= randRange(w.rng, sc.BatIntervalMin, sc.BatIntervalMax) {
		return
	}
	w.batTimer = 0

	target := w.batTargetY()
	tier := w.rollTier(true)
	x, ok := w.batSpawnX()
	if !ok {
		w.batTimer = 50
		return
	}
	if w.queueTail(spawnBat) {
		w.batTimer = 20
		return
	}
	hp := batHP[tier]
	w.queue = append(w.queue, spawn{kind: spawnBat, bat: Bat{
		X:       x,
		Y:       1,
		Tier:    tier,
		HP:      hp,
		MaxHP:   hp,
		Dir:     sign(w.rng),
		TargetY: target,
	}})
}

// obstacleCadence returns the centre and spread of the obstacle timer.
func (w *World) obstacleCadence() (base, spread int) {
	sc := w.cfg.Spawner
	base = max(sc.ObstacleBaseMin, sc.ObstacleBase-w.level*sc.ObstacleStep)
	spread = max(sc.ObstacleVarMin, sc.ObstacleVar-w.level*2)
	return base, spread
}

func (w *World) maybeQueueObstacle() {
	base, spread := w.obstacleCadence()
	if w.obstacleTimer <= randRange(w.rng, base-spread, base+spread) {
		return
	}
	w.obstacleTimer = 0
	retry := max(5, base/2)

	var lanes []int
	for i := range w.Birds {
		if w.Birds[i].Lost {
			continue
		}
		lane := w.lanes[i]
		if w.batOverLane(lane) || w.obstacleInLane(lane) {
			continue
		}
		lanes = append(lanes, lane)
	}
	if len(lanes) == 0 {
		w.obstacleTimer = retry
		return
	}

	lane := lanes[w.rng.Intn(len(lanes))]
	tier := w.rollTier(false)
	if w.queueTail(spawnObstacle) {
		w.obstacleTimer = retry
		return
	}
	hp := obstacleHP[tier]
	w.queue = append(w.queue, spawn{kind: spawnObstacle, obstacle: Obstacle{
		Lane:  lane,
		Y:     1,
		Tier:  tier,
		HP:    hp,
		MaxHP: hp,
	}})
}

func (w *World) batOverLane(lane int) bool {
	for i := range w.Bats {
		if w.Bats[i].xs().Overlaps(laneSpan(lane)) {
			return true
		}
	}
	return false
}

func (w *World) obstacleInLane(lane int) bool {
	for _, o := range w.Obstacles {
		if o.Lane == lane {
			return true
		}
	}
	return false
}

// QueueLen returns the number of enemies waiting for admission.
func (w *World) QueueLen() int { return len(w.queue) }
