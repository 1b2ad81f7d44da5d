package birds

import "testing"

func TestAdmissionCap(t *testing.T) {
	w, _ := newTestWorld(t)
	w.cfg.Rules.MaxEntities = 9
	for lane := range 3 {
		w.queue = append(w.queue, spawn{kind: spawnObstacle, obstacle: Obstacle{Lane: lane, Y: 1, Tier: 1, HP: 4, MaxHP: 4}})
	}

	w.admitSpawn()
	if len(w.Obstacles) != 0 || w.QueueLen() != 3 {
		t.Fatalf("nine birds fill a cap of nine, got %d obstacles", len(w.Obstacles))
	}

	w.cfg.Rules.MaxEntities = 11
	w.admitSpawn()
	if len(w.Obstacles) != 1 || w.QueueLen() != 2 {
		t.Fatalf("one admission per call, got %d obstacles and %d queued", len(w.Obstacles), w.QueueLen())
	}
	w.admitSpawn()
	w.admitSpawn()
	if len(w.Obstacles) != 2 || w.QueueLen() != 1 {
		t.Errorf("cap of 11 admits two, got %d obstacles and %d queued", len(w.Obstacles), w.QueueLen())
	}
	if w.Obstacles[0].Lane != 0 || w.Obstacles[1].Lane != 1 {
		t.Error("admission should be first in, first out")
	}

	w.loseLife(0)
	w.admitSpawn()
	if len(w.Obstacles) != 3 {
		t.Error("lost birds free a slot under the cap")
	}
}

func TestAdmittedBatIsStamped(t *testing.T) {
	w, _ := newTestWorld(t)
	w.clock = 12.5
	w.queue = []spawn{{kind: spawnBat, bat: Bat{X: 10, Y: 1, Tier: 1, HP: 16, MaxHP: 16}}}
	w.admitSpawn()
	if len(w.Bats) != 1 || w.Bats[0].Born != 12.5 {
		t.Errorf("bats = %+v, want one born at 12.5", w.Bats)
	}
}

func TestBatQueueTail(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = nil
	w.queue = []spawn{
		{kind: spawnBat, bat: Bat{X: -100}},
		{kind: spawnBat, bat: Bat{X: -100}},
	}
	w.batTimer = 1000

	w.maybeQueueBat()
	if w.QueueLen() != 2 {
		t.Errorf("queue = %d, a third bat in a row must not queue", w.QueueLen())
	}
	if w.batTimer != 20 {
		t.Errorf("bat timer = %d, want 20", w.batTimer)
	}
}

func TestBatNeedsRoom(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = nil
	w.queue = []spawn{
		{kind: spawnBat, bat: Bat{X: 5}},
		{kind: spawnObstacle},
		{kind: spawnBat, bat: Bat{X: 20}},
		{kind: spawnObstacle},
		{kind: spawnBat, bat: Bat{X: 35}},
	}
	w.batTimer = 1000

	w.maybeQueueBat()
	if w.QueueLen() != 5 {
		t.Errorf("queue = %d, no column is 15 away from every bat", w.QueueLen())
	}
	if w.batTimer != 50 {
		t.Errorf("bat timer = %d, want 50", w.batTimer)
	}
}

func TestBatQueued(t *testing.T) {
	w, _ := newTestWorld(t)
	w.batTimer = 1000
	w.maybeQueueBat()
	if w.QueueLen() != 1 {
		t.Fatalf("queue = %d, want a bat", w.QueueLen())
	}
	b := w.queue[0].bat
	if b.X < 1 || b.X > Width-BatWidth || b.Y != 1 {
		t.Errorf("bat spawned at (%d, %d)", b.X, b.Y)
	}
	if b.HP != batHP[b.Tier] || b.MaxHP != b.HP {
		t.Errorf("bat tier %d hp %d/%d", b.Tier, b.HP, b.MaxHP)
	}
	if b.Dir != 1 && b.Dir != -1 {
		t.Errorf("dir = %d", b.Dir)
	}
	if w.batTimer != 0 {
		t.Errorf("bat timer = %d, want reset", w.batTimer)
	}

	w.batTimer = 1000
	w.Bats = make([]Bat, w.cfg.Spawner.MaxBats)
	w.maybeQueueBat()
	if w.QueueLen() != 1 {
		t.Error("no bats queue while the field holds the maximum")
	}
}

func TestBatTargetRows(t *testing.T) {
	tests := []struct {
		level  int
		lo, hi int
	}{
		{1, 5, 8},
		{3, 5, 8},
		{4, 8, 10},
		{6, 8, 10},
		{7, 10, 12},
		{15, 10, 12},
	}
	w, _ := newTestWorld(t)
	for _, tt := range tests {
		w.level = tt.level
		for range 50 {
			if y := w.batTargetY(); y < tt.lo || y > tt.hi {
				t.Errorf("level %d target y = %d, want %d..%d", tt.level, y, tt.lo, tt.hi)
			}
		}
	}
}

func TestObstacleCadence(t *testing.T) {
	w, _ := newTestWorld(t)
	tests := []struct {
		level        int
		base, spread int
	}{
		{1, 56, 28},
		{5, 40, 20},
		{20, 15, 10},
	}
	for _, tt := range tests {
		w.level = tt.level
		base, spread := w.obstacleCadence()
		if base != tt.base || spread != tt.spread {
			t.Errorf("level %d cadence = %d±%d, want %d±%d", tt.level, base, spread, tt.base, tt.spread)
		}
	}
}

func TestObstacleNeedsFreeLane(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = nil
	for lane := range NumLanes {
		w.Obstacles = append(w.Obstacles, Obstacle{Lane: lane, Y: 3, Tier: 1, HP: 4, MaxHP: 4})
	}
	w.obstacleTimer = 1000

	w.maybeQueueObstacle()
	if w.QueueLen() != 0 {
		t.Fatal("every lane is taken")
	}
	if w.obstacleTimer != 28 {
		t.Errorf("obstacle timer = %d, want 28 at level 1", w.obstacleTimer)
	}

	w.Obstacles = w.Obstacles[:0]
	w.Bats = []Bat{{X: 0, Y: 3}}
	w.obstacleTimer = 1000
	w.maybeQueueObstacle()
	if w.QueueLen() != 1 {
		t.Fatal("expected an obstacle")
	}
	o := w.queue[0].obstacle
	if w.batOverLane(o.Lane) {
		t.Errorf("obstacle queued in lane %d under a bat", o.Lane)
	}
	if o.HP != obstacleHP[o.Tier] {
		t.Errorf("obstacle tier %d hp %d", o.Tier, o.HP)
	}
}

func TestTierWeights(t *testing.T) {
	for _, level := range []int{1, 3, 5, 9} {
		for _, bats := range []bool{true, false} {
			sum := 0
			for _, v := range tierWeights(level, bats) {
				sum += v
			}
			if sum != 100 {
				t.Errorf("tierWeights(%d, %v) sums to %d", level, bats, sum)
			}
		}
	}
	w, _ := newTestWorld(t)
	for range 200 {
		if tier := w.rollTier(true); tier < 1 || tier > 4 {
			t.Fatalf("tier = %d", tier)
		}
	}
}

func TestSecondBatInARow(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = nil
	w.queue = []spawn{{kind: spawnBat, bat: Bat{X: -100}}}
	w.batTimer = 1000

	w.maybeQueueBat()
	if w.QueueLen() != 2 || w.queue[1].kind != spawnBat {
		t.Errorf("queue = %d, a second bat in a row is allowed", w.QueueLen())
	}
}
