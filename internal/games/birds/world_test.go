package birds

import (
	"slices"
	"testing"

	"github.com/vovakirdan/tui-birds/internal/config"
	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

type recordedEvent struct {
	name   string
	params map[string]any
}

type recordingSink struct {
	events   []recordedEvent
	unlocked []string
}

func (s *recordingSink) LogEvent(name string, params map[string]any) {
	s.events = append(s.events, recordedEvent{name: name, params: params})
}

func (s *recordingSink) UnlockAchievement(id string) {
	s.unlocked = append(s.unlocked, id)
}

func (s *recordingSink) count(name string) int {
	n := 0
	for _, e := range s.events {
		if e.name == name {
			n++
		}
	}
	return n
}

func newTestWorld(t *testing.T) (*World, *recordingSink) {
	t.Helper()
	w := NewWorld(config.DefaultBirdsConfig(), 42)
	sink := &recordingSink{}
	w.SetEventSink(sink)
	return w, sink
}

func assertPermutation(t *testing.T, lanes [NumLanes]int) {
	t.Helper()
	seen := [NumLanes]bool{}
	for _, l := range lanes {
		if l < 0 || l >= NumLanes || seen[l] {
			t.Fatalf("lanes %v is not a permutation of 0..8", lanes)
		}
		seen[l] = true
	}
}

func TestNewWorld(t *testing.T) {
	w, _ := newTestWorld(t)

	if w.Lives() != 5 {
		t.Errorf("lives = %d, want 5", w.Lives())
	}
	if w.Level() != 1 {
		t.Errorf("level = %d, want 1", w.Level())
	}
	if w.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", w.Cursor())
	}
	if w.Selected() != -1 {
		t.Errorf("selected = %d, want -1", w.Selected())
	}
	assertPermutation(t, w.lanes)

	counts := map[BirdColor]int{}
	for i, b := range w.Birds {
		counts[b.Color]++
		if b.Y != StartingLine || !b.Rising() {
			t.Errorf("bird %d starts at y=%d vy=%d", i, b.Y, b.VY)
		}
		if b.Speed != b.Color.BaseSpeed() {
			t.Errorf("bird %d speed = %d, want %d", i, b.Speed, b.Color.BaseSpeed())
		}
	}
	if counts[Yellow] != 4 || counts[Red] != 3 || counts[Blue] != 2 {
		t.Errorf("flock = %v, want 4 yellow, 3 red, 2 blue", counts)
	}
}

func TestLanePermutationHolds(t *testing.T) {
	w, _ := newTestWorld(t)
	w.score = 1e6

	script := []core.Action{core.ActionSwap, core.ActionLeft, core.ActionSwap, core.ActionUp, core.ActionRight, core.ActionRight, core.ActionSwap, core.ActionRight, core.ActionSwap}
	for f := range 3000 {
		in := core.NewInputFrame()
		in.Set(script[f%len(script)])
		w.Step(in)
		assertPermutation(t, w.lanes)
		if w.Over() {
			break
		}
	}
	if w.Swaps() == 0 {
		t.Error("expected the script to perform swaps")
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 1},
		{999, 1},
		{1000, 1},
		{3399, 1},
		{3400, 2},
		{6999, 2},
		{7000, 3},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}

	prev := LevelThreshold(1)
	if prev != 1000 {
		t.Fatalf("LevelThreshold(1) = %d, want 1000", prev)
	}
	for n := 2; n <= 30; n++ {
		got := LevelThreshold(n)
		if got != prev+n*1200 {
			t.Fatalf("LevelThreshold(%d) = %d, want %d", n, got, prev+n*1200)
		}
		prev = got
	}
}

func TestFrameInterval(t *testing.T) {
	if got := FrameInterval(0.2, 0.02, 0.88, 0); got.Milliseconds() != 200 {
		t.Errorf("level 0 interval = %v, want 200ms", got)
	}
	if got := FrameInterval(0.2, 0.02, 0.88, 100); got.Milliseconds() != 20 {
		t.Errorf("level 100 interval = %v, want the 20ms floor", got)
	}
	if FrameInterval(0.2, 0.02, 0.88, 3) >= FrameInterval(0.2, 0.02, 0.88, 2) {
		t.Error("interval should shrink as the level rises")
	}
}

func TestAddAndDeductScore(t *testing.T) {
	w, sink := newTestWorld(t)

	w.AddScore(3400)
	w.refreshLevel()
	if w.Level() != 2 {
		t.Fatalf("level after 3400 = %d, want 2", w.Level())
	}
	if !slices.Contains(sink.unlocked, "score_1k") {
		t.Error("score_1k should unlock at 3400 points")
	}

	w.DeductScore(500)
	w.refreshLevel()
	if w.Level() != 1 {
		t.Errorf("level after spending = %d, want 1", w.Level())
	}

	w.DeductScore(1e9)
	if w.Score() != 0 {
		t.Errorf("score = %v, want clamp at 0", w.Score())
	}
	if !slices.Contains(w.Unlocked(), "score_1k") {
		t.Error("unlocks must survive losing score")
	}
}

func TestObstacleTwoHits(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = nil
	lane := w.lanes[0]
	b := &w.Birds[0]
	b.Color, b.Speed, b.Y, b.VY = Yellow, 2, StartingLine, -1
	w.Obstacles = []Obstacle{{Lane: lane, Y: StartingLine - 1, Tier: 1, HP: 4, MaxHP: 4}}

	w.rise(0, 2)
	if len(w.Obstacles) != 1 || w.Obstacles[0].HP != 2 {
		t.Fatalf("after first hit obstacles = %+v, want one with hp 2", w.Obstacles)
	}
	if b.VY != 1 || b.Y != StartingLine {
		t.Errorf("bird after bounce y=%d vy=%d, want y=%d vy=1", b.Y, b.VY, StartingLine)
	}

	// a second bird takes over the lane and finishes the obstacle
	w.lanes[0], w.lanes[1] = w.lanes[1], w.lanes[0]
	c := &w.Birds[1]
	c.Color, c.Speed, c.Y, c.VY = Red, 3, StartingLine, -1
	before := w.Score()
	w.rise(1, 3)
	if len(w.Obstacles) != 0 {
		t.Fatalf("obstacle should be removed, got %+v", w.Obstacles)
	}
	if c.Y != StartingLine-1 || c.VY != -1 {
		t.Errorf("bird should break through to y=%d, got y=%d vy=%d", StartingLine-1, c.Y, c.VY)
	}
	if got := w.Score() - before; got != 2 {
		t.Errorf("obstacle kill scored %v, want 2", got)
	}
	if len(w.Loot) != 1 {
		t.Errorf("loot drops = %d, want 1", len(w.Loot))
	}

	// hp never goes negative on an overkill
	w.Obstacles = []Obstacle{{Lane: lane, Y: 8, Tier: 1, HP: 1, MaxHP: 4}}
	if !w.damageObstacle(0, 50, false) {
		t.Error("overkill should destroy the obstacle")
	}
	if got := w.ach.list[w.ach.index["destroy_obstacle_10"]].Progress; got != 2 {
		t.Errorf("obstacle counter = %d, want 2", got)
	}
}

func TestBatHitScaresBird(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Obstacles = nil
	b := &w.Birds[0]
	b.Color, b.Speed, b.Y, b.VY = Yellow, 2, 12, -1
	x := LanePositions[w.lanes[0]]
	w.Bats = []Bat{{X: x - 4, Y: 10, Tier: 3, HP: 64, MaxHP: 64, Dir: 1}}

	w.rise(0, 2)

	if w.Bats[0].HP != 62 {
		t.Errorf("bat hp = %d, want 62", w.Bats[0].HP)
	}
	if b.VY != 1 || b.Y != 12 {
		t.Errorf("bird y=%d vy=%d, want y=12 vy=1", b.Y, b.VY)
	}
	if w.scared[0] != 10 {
		t.Errorf("scared = %d, want 10 frames", w.scared[0])
	}
	if w.boost[0] != 10 {
		t.Errorf("tier 3 bat should add a 10 frame boost, got %d", w.boost[0])
	}
}

func TestOrangeKillsBatOutright(t *testing.T) {
	w, sink := newTestWorld(t)
	w.Obstacles = nil
	b := &w.Birds[0]
	b.Color, b.Speed, b.Y, b.VY = Orange, 5, 12, -1
	x := LanePositions[w.lanes[0]]
	w.Bats = []Bat{{X: x - 4, Y: 10, Tier: 4, HP: 128, MaxHP: 128}}

	w.rise(0, 5)

	if len(w.Bats) != 0 {
		t.Fatal("orange bird should destroy the bat")
	}
	if !slices.Contains(sink.unlocked, "destroy_bat_orange") {
		t.Error("destroy_bat_orange should unlock")
	}
	if !slices.Contains(sink.unlocked, "destroy_bat_t4_1") {
		t.Error("destroy_bat_t4_1 should unlock")
	}
}

func TestEggRespawn(t *testing.T) {
	w, sink := newTestWorld(t)
	w.loseLife(3)
	if w.Lives() != 4 || !w.Birds[3].Lost {
		t.Fatalf("lives=%d lost=%v after loseLife", w.Lives(), w.Birds[3].Lost)
	}

	b := &w.Birds[0]
	b.Y, b.VY = 10, -1
	w.Loot = []Loot{{Lane: w.lanes[0], Y: 11, Item: Item{Kind: LootEgg, Egg: Purple}, Rarity: Uncommon}}
	w.collectLoot(0)

	if len(w.Loot) != 0 {
		t.Error("loot should be picked up")
	}
	got := w.Birds[3]
	if got.Lost || got.Color != Purple || got.Y != StartingLine || !got.Rising() || got.Speed != 3 {
		t.Errorf("respawned bird = %+v", got)
	}
	if w.Lives() != 5 {
		t.Errorf("lives = %d, want 5", w.Lives())
	}
	if !slices.Contains(sink.unlocked, "collect_purple") {
		t.Error("collect_purple should unlock")
	}

	// no lost slot: the egg is wasted
	w.applyItem(Item{Kind: LootEgg, Egg: Yellow})
	if w.Lives() != 5 {
		t.Errorf("lives = %d after a wasted egg, want 5", w.Lives())
	}

	w.loseLife(5)
	w.applyItem(Item{Kind: LootEgg, Egg: Clockwork})
	if w.Birds[5].Charge != 2 || w.Birds[5].Speed != 2 {
		t.Errorf("clockwork respawn = %+v, want charge 2 speed 2", w.Birds[5])
	}
}

func TestLastLifeEndsRun(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := range 5 {
		w.loseLife(i)
	}
	if !w.Over() {
		t.Fatal("run should end with no lives left")
	}
	frame := w.Frame()
	w.Step(core.NewInputFrame())
	if w.Frame() != frame {
		t.Error("a finished world must not advance")
	}
}

func TestCeilingAndFloor(t *testing.T) {
	w, _ := newTestWorld(t)

	w.Birds[0].Color = Orange
	w.Birds[0].Y = 1
	w.checkBounds(0)
	if !w.Birds[0].Egg || w.nestIndex(w.lanes[0]) < 0 {
		t.Fatal("orange bird at the ceiling should become an egg with a nest")
	}

	w.Birds[1].Y, w.Birds[1].VY, w.Birds[1].PowerUsed = 0, -1, true
	w.checkBounds(1)
	if w.Birds[1].Y != 1 || w.Birds[1].VY != 1 || w.Birds[1].PowerUsed {
		t.Errorf("ceiling bounce = %+v", w.Birds[1])
	}

	w.Birds[2].Color, w.Birds[2].Charge, w.Birds[2].Y = Clockwork, 1, Height-1
	w.checkBounds(2)
	if w.Birds[2].Lost || w.Birds[2].Y != StartingLine {
		t.Errorf("charged clockwork should respawn, got %+v", w.Birds[2])
	}

	w.Birds[3].Y = Height - 1
	w.checkBounds(3)
	if !w.Birds[3].Lost || w.Lives() != 4 {
		t.Errorf("floor should cost a life: lost=%v lives=%d", w.Birds[3].Lost, w.Lives())
	}

	// the nest expires after the despawn time and takes the egg with it
	w.clock = w.cfg.Timing.DespawnSeconds + 1
	w.despawn()
	if !w.Birds[0].Lost || w.Lives() != 3 {
		t.Errorf("expired nest: lost=%v lives=%d", w.Birds[0].Lost, w.Lives())
	}
}

func TestPauseFreezesFrames(t *testing.T) {
	w, _ := newTestWorld(t)
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)

	w.Step(pause)
	if !w.Paused() || w.Frame() != 0 {
		t.Fatalf("paused=%v frame=%d", w.Paused(), w.Frame())
	}
	if w.Notification() != "PAUSED" {
		t.Errorf("notification = %q, want PAUSED", w.Notification())
	}
	w.Step(core.NewInputFrame())
	if w.Frame() != 0 {
		t.Error("frames must not advance while paused")
	}

	w.Step(pause)
	if w.Paused() || w.Frame() != 1 {
		t.Errorf("paused=%v frame=%d after resume", w.Paused(), w.Frame())
	}
	if w.Notification() != "RESUMED" {
		t.Errorf("notification = %q, want RESUMED", w.Notification())
	}
}

func TestDespawnUsesSimulatedClock(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Bats = []Bat{{X: 1, Y: 3, Tier: 1, HP: 16, MaxHP: 16, Born: 0}}
	w.Loot = []Loot{{Lane: 0, Y: 5, Item: Item{Kind: LootShuffle, Tier: 1}, Born: 10}}

	w.clock = 60
	w.despawn()
	if len(w.Bats) != 1 {
		t.Error("bat at exactly the lifetime should survive")
	}

	w.clock = 60.5
	w.despawn()
	if len(w.Bats) != 0 || len(w.Loot) != 1 {
		t.Errorf("bats=%d loot=%d, want 0 and 1", len(w.Bats), len(w.Loot))
	}
}

func TestGameOverEvent(t *testing.T) {
	w, sink := newTestWorld(t)
	isolate(w, 4)
	i := w.BirdInLane(4)
	w.Birds[i] = Bird{Color: Gold, Speed: Gold.BaseSpeed(), Y: Height - 1, VY: 1}
	w.lives = 1
	w.score = 3000
	w.clock = 90

	w.Step(core.NewInputFrame())
	if !w.Over() {
		t.Fatal("losing the last life should end the run")
	}

	var params map[string]any
	for _, e := range sink.events {
		if e.name == "game_over" {
			params = e.params
		}
	}
	if params == nil {
		t.Fatal("no game_over event")
	}
	score, ok := params["score"].(int)
	if !ok || score < 3000 {
		t.Fatalf("score param = %v", params["score"])
	}
	if params["time_played_seconds"] != 90 || params["time_played"] != "01:30" {
		t.Errorf("time played = %v (%v), want 90 (01:30)", params["time_played_seconds"], params["time_played"])
	}
	if params["version"] != GameVersion {
		t.Errorf("version = %v, want %s", params["version"], GameVersion)
	}
	if want := telemetry.AvgPPM(score, w.Elapsed()); params["avg_ppm"] != want {
		t.Errorf("avg_ppm = %v, want %v", params["avg_ppm"], want)
	}
	if params["level"] != 1 || params["swaps"] != 0 {
		t.Errorf("level = %v swaps = %v", params["level"], params["swaps"])
	}
}
