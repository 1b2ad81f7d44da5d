package birds

import (
	"slices"
	"testing"
)

func TestAchievementIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range AchievementCatalog() {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Unlocked || a.Progress != 0 {
			t.Errorf("catalog entry %q carries progress", a.ID)
		}
	}
	for _, id := range []string{"score_1k", "swap_100", "destroy_bat_t4_1", "count_orange_7", "count_all_9", "combo_yellow_blue_bounce_chain"} {
		if !seen[id] {
			t.Errorf("missing achievement %q", id)
		}
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	w, sink := newTestWorld(t)

	if !w.ach.unlock("swap_1") {
		t.Fatal("first unlock should succeed")
	}
	if w.ach.unlock("swap_1") {
		t.Error("second unlock should be a no-op")
	}
	if w.ach.unlock("no_such_thing") {
		t.Error("unknown ids never unlock")
	}
	if len(sink.unlocked) != 1 || sink.count("achievement_unlocked") != 1 {
		t.Errorf("sink saw %d unlocks and %d events, want 1 each", len(sink.unlocked), sink.count("achievement_unlocked"))
	}
	if w.Notification() != "Achievement unlocked: Swapping Lanes" {
		t.Errorf("notification = %q", w.Notification())
	}
}

func TestUnlockOrder(t *testing.T) {
	w, _ := newTestWorld(t)
	w.ach.unlock("score_5k")
	w.ach.unlock("swap_1")
	w.ach.unlock("score_1k")

	want := []string{"score_5k", "swap_1", "score_1k"}
	if got := w.Unlocked(); !slices.Equal(got, want) {
		t.Errorf("Unlocked() = %v, want %v", got, want)
	}
}

func TestCounterProgress(t *testing.T) {
	w, _ := newTestWorld(t)
	for range 9 {
		w.ach.onDestroyBat(2)
	}
	if slices.Contains(w.Unlocked(), "destroy_bat_t2_10") {
		t.Fatal("unlocked before reaching the goal")
	}
	w.ach.onDestroyBat(2)
	if !slices.Contains(w.Unlocked(), "destroy_bat_t2_10") || !slices.Contains(w.Unlocked(), "destroy_bat_10") {
		t.Errorf("unlocked = %v, want both bat counters", w.Unlocked())
	}
	for _, a := range w.Achievements() {
		if a.ID == "destroy_bat_100" && a.Progress != 10 {
			t.Errorf("destroy_bat_100 progress = %d, want 10", a.Progress)
		}
	}
}

func TestSynergyWindow(t *testing.T) {
	w, _ := newTestWorld(t)

	w.frame = 0
	w.ach.onPowerUsed("yellow", 1, Yellow)
	w.frame = 301
	w.ach.onPowerUsed("blue", 2, Blue)
	if slices.Contains(w.Unlocked(), "synergy_pair") {
		t.Fatal("powers 301 frames apart are not a synergy")
	}

	w.frame = 400
	w.ach.onPowerUsed("white", 3, White)
	if !slices.Contains(w.Unlocked(), "synergy_pair") {
		t.Fatal("two distinct powers within 300 frames should unlock synergy_pair")
	}
	if slices.Contains(w.Unlocked(), "synergy_triple") {
		t.Fatal("only two powers in the window")
	}

	w.frame = 450
	w.ach.onPowerUsed("blue", 2, Blue)
	if slices.Contains(w.Unlocked(), "synergy_triple") {
		t.Fatal("a repeated power is not a third distinct one")
	}
	w.ach.onPowerUsed("wide_cursor", -1, 0)
	if !slices.Contains(w.Unlocked(), "synergy_triple") {
		t.Error("three distinct powers should unlock synergy_triple")
	}
}

func TestAreaAndOriginals(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := range w.Birds {
		w.Birds[i].Y = 5
	}
	for range 100 {
		w.ach.onFrame()
	}
	if !slices.Contains(w.Unlocked(), "hold_top50_100") {
		t.Error("100 frames in the top half should unlock hold_top50_100")
	}

	w.Birds[0].Y = 20
	w.ach.onFrame()
	if w.ach.top50 != 0 || w.ach.top30 != 0 {
		t.Errorf("streaks = %d/%d, want reset", w.ach.top50, w.ach.top30)
	}

	w.loseLife(1)
	w.ach.onFrame()
	if w.ach.originals != 0 {
		t.Errorf("originals streak = %d after a loss, want 0", w.ach.originals)
	}
}

func TestColorCounts(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := range w.Birds {
		w.Birds[i].Color = Red
	}
	w.ach.onFrame()

	got := w.Unlocked()
	for _, id := range []string{"count_red_5", "count_red_7", "count_all_9"} {
		if !slices.Contains(got, id) {
			t.Errorf("missing %s in %v", id, got)
		}
	}
	if slices.Contains(got, "count_yellow_5") {
		t.Error("no yellow birds left")
	}
}

func TestActionLogRing(t *testing.T) {
	var l actionLog
	for f := range 70 {
		l.push(RecentAction{Kind: actionBounce, Frame: f})
	}
	if l.len() != actionLogSize {
		t.Fatalf("len = %d, want %d", l.len(), actionLogSize)
	}
	if got := l.at(0).Frame; got != 6 {
		t.Errorf("oldest frame = %d, want 6", got)
	}
	if got := l.at(l.len() - 1).Frame; got != 69 {
		t.Errorf("newest frame = %d, want 69", got)
	}

	l.prune(100, 40)
	if l.len() != 10 || l.at(0).Frame != 60 {
		t.Errorf("after prune len=%d oldest=%d, want 10 and 60", l.len(), l.at(0).Frame)
	}
}

func TestYellowBlueChainCooldown(t *testing.T) {
	w, sink := newTestWorld(t)

	w.frame = 100
	w.ach.record(actionBounce, 3, Yellow)
	w.ach.record(actionBounce, 4, Blue)
	if w.Combos() != 1 {
		t.Fatalf("combos = %d, want 1", w.Combos())
	}
	if !slices.Contains(sink.unlocked, "combo_yellow_blue_bounce_chain") {
		t.Error("combo should unlock its achievement")
	}

	w.frame = 130
	w.ach.record(actionBounce, 4, Blue)
	if w.Combos() != 1 {
		t.Errorf("combos = %d inside the cooldown, want 1", w.Combos())
	}

	w.frame = 161
	w.ach.record(actionBounce, 4, Blue)
	if w.Combos() != 2 {
		t.Errorf("combos = %d after the cooldown, want 2", w.Combos())
	}
	if sink.count("combo_performed") != 2 {
		t.Errorf("combo events = %d, want 2", sink.count("combo_performed"))
	}
}

func TestYellowBlueChainNeedsNeighbours(t *testing.T) {
	w, _ := newTestWorld(t)
	w.frame = 10
	w.ach.record(actionBounce, 3, Yellow)
	w.ach.record(actionBounce, 5, Blue)
	w.frame = 80
	w.ach.record(actionBounce, 4, Blue)
	if w.Combos() != 0 {
		t.Errorf("combos = %d, want none for a distant lane or a late bounce", w.Combos())
	}
}

func TestElementalCombo(t *testing.T) {
	w, _ := newTestWorld(t)
	steps := []struct {
		frame int
		kind  ActionKind
	}{
		{10, actionFire},
		{20, actionBounce}, // noise
		{30, actionSuction},
		{40, actionBounce},
		{50, actionStealth}, // noise
	}
	for _, s := range steps {
		w.frame = s.frame
		w.ach.record(s.kind, 1, Red)
	}
	if w.Combos() != 0 {
		t.Fatal("combo fired before the final fire")
	}

	w.frame = 60
	w.ach.record(actionFire, 1, Red)
	if w.Combos() != 1 || !slices.Contains(w.Unlocked(), "combo_fire_suction_bounce_fire") {
		t.Errorf("combos = %d, unlocked = %v", w.Combos(), w.Unlocked())
	}

	kinds := []string{}
	for _, a := range w.RecentActions() {
		kinds = append(kinds, a.Kind.String())
	}
	want := []string{"fire", "bounce", "suction", "bounce", "stealth", "fire"}
	if !slices.Equal(kinds, want) {
		t.Errorf("recent actions = %v, want %v", kinds, want)
	}
}

func TestElementalComboWindow(t *testing.T) {
	w, _ := newTestWorld(t)
	w.frame = 0
	w.ach.record(actionFire, 1, Red)
	w.frame = 100
	w.ach.record(actionSuction, 1, Red)
	w.ach.record(actionBounce, 1, Red)
	w.frame = 201
	w.ach.record(actionFire, 1, Red)
	if w.Combos() != 0 {
		t.Error("the first fire fell out of the 200 frame window")
	}
}
