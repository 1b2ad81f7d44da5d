package birds

import (
	"slices"
	"testing"
)

// clearField removes every bird and enemy so a test can place its own.
func clearField(w *World) {
	for i := range w.Birds {
		w.Birds[i].Lost = true
	}
	w.Bats, w.Obstacles, w.Projectiles, w.Loot = nil, nil, nil, nil
}

func TestUpdateBats(t *testing.T) {
	tests := []struct {
		name    string
		frame   int
		bats    []Bat
		bird    *Bird // placed in lane 2, columns 11..15
		wantX   int
		wantDir int
		wantY   int
	}{
		{"slides on the third frame", 3, []Bat{{X: 20, Y: 3, Dir: 1, TargetY: 3}}, nil, 22, 1, 3},
		{"holds between slides", 4, []Bat{{X: 20, Y: 3, Dir: 1, TargetY: 3}}, nil, 20, 1, 3},
		{"clamps at the right wall", 3, []Bat{{X: Width - 9, Y: 3, Dir: 1, TargetY: 3}}, nil, Width - 8, -1, 3},
		{"clamps at the left wall", 3, []Bat{{X: 1, Y: 3, Dir: -1, TargetY: 3}}, nil, 0, 1, 3},
		{"turns at another bat", 3, []Bat{{X: 20, Y: 3, Dir: 1, TargetY: 3}, {X: 30, Y: 3, Dir: 1, TargetY: 3}}, nil, 20, -1, 3},
		{"turns at a nearby bird", 3, []Bat{{X: 10, Y: 3, Dir: 1, TargetY: 3}}, &Bird{Color: Yellow, Speed: 2, Y: 9, VY: 1}, 10, -1, 3},
		{"passes a distant bird", 3, []Bat{{X: 10, Y: 3, Dir: 1, TargetY: 3}}, &Bird{Color: Yellow, Speed: 2, Y: 11, VY: -1}, 12, 1, 3},
		{"looks ahead on the bird's clock", 3, []Bat{{X: 10, Y: 3, Dir: 1, TargetY: 3}}, &Bird{Color: Red, Speed: 3, Y: 11, VY: -1}, 10, -1, 3},
		{"descends on the fifth frame", 5, []Bat{{X: 20, Y: 3, Dir: 1, TargetY: 6}}, nil, 20, 1, 4},
		{"stops at the target row", 5, []Bat{{X: 20, Y: 6, Dir: 1, TargetY: 6}}, nil, 20, 1, 6},
		{"slides and descends", 15, []Bat{{X: 20, Y: 3, Dir: -1, TargetY: 6}}, nil, 18, -1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			clearField(w)
			w.Bats = slices.Clone(tt.bats)
			if tt.bird != nil {
				w.Birds[w.BirdInLane(2)] = *tt.bird
			}
			w.frame = tt.frame

			w.updateBats()

			got := w.Bats[0]
			if got.X != tt.wantX || got.Dir != tt.wantDir || got.Y != tt.wantY {
				t.Errorf("bat at x=%d y=%d dir=%d, want x=%d y=%d dir=%d", got.X, got.Y, got.Dir, tt.wantX, tt.wantY, tt.wantDir)
			}
		})
	}
}

func TestBatsCrushObstacles(t *testing.T) {
	w, sink := newTestWorld(t)
	clearField(w)
	w.Bats = []Bat{{X: 10, Y: 5, Tier: 1, HP: 16, MaxHP: 16}}
	w.Obstacles = []Obstacle{
		{Lane: 2, Y: 6, Tier: 1, HP: 4, MaxHP: 4}, // under the bat
		{Lane: 2, Y: 9, Tier: 1, HP: 4, MaxHP: 4}, // same lane, too low
		{Lane: 6, Y: 5, Tier: 1, HP: 4, MaxHP: 4}, // same row, other side
	}

	w.batsCrushObstacles()

	if len(w.Obstacles) != 2 || w.Obstacles[0].Y != 9 || w.Obstacles[1].Lane != 6 {
		t.Fatalf("obstacles = %+v, want the lane 2 row 9 and lane 6 ones", w.Obstacles)
	}
	if w.Bats[0].HP != 16 {
		t.Errorf("bat hp = %d, crushing must not hurt the bat", w.Bats[0].HP)
	}
	if w.Score() != 0 || len(w.Loot) != 0 || len(sink.unlocked) != 0 {
		t.Error("a crushed obstacle pays nothing")
	}
}

func TestUpdateProjectiles(t *testing.T) {
	tests := []struct {
		name      string
		shot      Projectile
		bats      []Bat
		obstacles []Obstacle
		wantShots int
		wantBats  []int // hp of the remaining bats
		wantObs   []int // hp of the remaining obstacles
		wantScore float64
	}{
		{
			name:      "travels one row",
			shot:      Projectile{X: 13, Y: 10, Lane: 2, Damage: 3},
			wantShots: 1,
		},
		{
			name: "leaves the top",
			shot: Projectile{X: 13, Y: 0, Lane: 2, Damage: 3},
		},
		{
			name:     "hits a bat",
			shot:     Projectile{X: 13, Y: 7, Lane: 2, Damage: 3},
			bats:     []Bat{{X: 10, Y: 5, Tier: 1, HP: 16, MaxHP: 16}},
			wantBats: []int{13},
		},
		{
			name:      "kills a bat",
			shot:      Projectile{X: 18, Y: 6, Lane: 3, Damage: 3},
			bats:      []Bat{{X: 10, Y: 5, Tier: 1, HP: 3, MaxHP: 16}},
			wantScore: 16,
		},
		{
			name:      "passes beside a bat",
			shot:      Projectile{X: 21, Y: 7, Lane: 4, Damage: 3},
			bats:      []Bat{{X: 10, Y: 5, Tier: 1, HP: 16, MaxHP: 16}},
			wantShots: 1,
			wantBats:  []int{16},
		},
		{
			name:      "hits an obstacle in its lane",
			shot:      Projectile{X: 13, Y: 7, Lane: 2, Damage: 3},
			obstacles: []Obstacle{{Lane: 2, Y: 5, Tier: 1, HP: 4, MaxHP: 4}},
			wantObs:   []int{1},
		},
		{
			name:      "ignores other lanes",
			shot:      Projectile{X: 13, Y: 7, Lane: 2, Damage: 3},
			obstacles: []Obstacle{{Lane: 3, Y: 6, Tier: 1, HP: 4, MaxHP: 4}},
			wantShots: 1,
			wantObs:   []int{4},
		},
		{
			name:      "bats before obstacles",
			shot:      Projectile{X: 13, Y: 7, Lane: 2, Damage: 3},
			bats:      []Bat{{X: 10, Y: 5, Tier: 1, HP: 16, MaxHP: 16}},
			obstacles: []Obstacle{{Lane: 2, Y: 6, Tier: 1, HP: 4, MaxHP: 4}},
			wantBats:  []int{13},
			wantObs:   []int{4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			clearField(w)
			w.Projectiles = []Projectile{tt.shot}
			w.Bats = slices.Clone(tt.bats)
			w.Obstacles = slices.Clone(tt.obstacles)

			w.updateProjectiles()

			if len(w.Projectiles) != tt.wantShots {
				t.Fatalf("projectiles = %+v, want %d", w.Projectiles, tt.wantShots)
			}
			if tt.wantShots == 1 && w.Projectiles[0].Y != tt.shot.Y-1 {
				t.Errorf("projectile y = %d, want %d", w.Projectiles[0].Y, tt.shot.Y-1)
			}
			var bats, obs []int
			for _, b := range w.Bats {
				bats = append(bats, b.HP)
			}
			for _, o := range w.Obstacles {
				obs = append(obs, o.HP)
			}
			if !slices.Equal(bats, tt.wantBats) {
				t.Errorf("bat hp = %v, want %v", bats, tt.wantBats)
			}
			if !slices.Equal(obs, tt.wantObs) {
				t.Errorf("obstacle hp = %v, want %v", obs, tt.wantObs)
			}
			if w.Score() != tt.wantScore {
				t.Errorf("score = %v, want %v", w.Score(), tt.wantScore)
			}
		})
	}
}

func TestStealthBurst(t *testing.T) {
	const stray = -5 // Born marker of the loot placed by the test

	setup := func(t *testing.T, stealth int) *World {
		w, _ := newTestWorld(t)
		clearField(w)
		i := w.BirdInLane(4) // column 21
		w.Birds[i] = Bird{Color: Stealth, Speed: 3, Y: 10, VY: -1}
		w.stealth[i] = stealth
		w.Bats = []Bat{
			{X: 17, Y: 11, Tier: 1, HP: 16, MaxHP: 16},
			{X: 30, Y: 10, Tier: 1, HP: 16, MaxHP: 16},
		}
		w.Obstacles = []Obstacle{
			{Lane: 4, Y: 11, Tier: 4, HP: 16, MaxHP: 16},
			{Lane: 4, Y: 13, Tier: 1, HP: 4, MaxHP: 4},
		}
		w.Loot = []Loot{
			{Lane: 4, Y: 12, Item: Item{Kind: LootShuffle, Tier: 1}, Born: stray},
			{Lane: 4, Y: 12, Item: Item{Kind: LootEgg, Egg: Orange}, Born: stray, Nest: true},
		}
		return w
	}

	t.Run("tangible", func(t *testing.T) {
		w := setup(t, 5)
		w.stealthBurst()

		if len(w.Bats) != 1 || w.Bats[0].X != 30 || w.Bats[0].HP != 16 {
			t.Errorf("bats = %+v, want only the distant one, unhurt", w.Bats)
		}
		if len(w.Obstacles) != 1 || w.Obstacles[0].Y != 13 {
			t.Errorf("obstacles = %+v, want only the row 13 one", w.Obstacles)
		}
		var strays []Loot
		for _, l := range w.Loot {
			if l.Born == stray {
				strays = append(strays, l)
			}
		}
		if len(strays) != 1 || !strays[0].Nest {
			t.Errorf("placed loot left = %+v, want just the nest", strays)
		}
		if got := len(w.Loot) - len(strays); got != 2 {
			t.Errorf("drops = %d, want one per kill", got)
		}
	})

	t.Run("idle", func(t *testing.T) {
		w := setup(t, 0)
		w.stealthBurst()
		if len(w.Bats) != 2 || len(w.Obstacles) != 2 || len(w.Loot) != 2 {
			t.Errorf("idle stealth touched the field: %d bats, %d obstacles, %d loot", len(w.Bats), len(w.Obstacles), len(w.Loot))
		}
	})
}

func TestUpdateObstacles(t *testing.T) {
	tests := []struct {
		name  string
		frame int
		y     int
		wantY int // -1 when removed
	}{
		{"falls on the fifth frame", 5, 3, 4},
		{"holds between falls", 4, 3, 3},
		{"removed at the starting area", 10, StartingLine - 2, -1},
		{"already in the starting area", 4, StartingLine - 1, -1},
		{"just above the starting area", 4, StartingLine - 2, StartingLine - 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorld(t)
			clearField(w)
			w.Obstacles = []Obstacle{{Lane: 1, Y: tt.y, Tier: 1, HP: 4, MaxHP: 4}}
			w.frame = tt.frame

			w.updateObstacles()

			if tt.wantY < 0 {
				if len(w.Obstacles) != 0 {
					t.Errorf("obstacle should be gone, got %+v", w.Obstacles)
				}
				return
			}
			if len(w.Obstacles) != 1 || w.Obstacles[0].Y != tt.wantY {
				t.Errorf("obstacles = %+v, want one at y=%d", w.Obstacles, tt.wantY)
			}
		})
	}
}
