package birds

import "fmt"

// AchievementType selects which event an achievement listens to.
type AchievementType uint8

const (
	TypeScore AchievementType = iota
	TypeCounter
	TypeCollect
	TypeSpecial
	TypeArea
	TypeOriginal
	TypeColorCount
	TypeColorCountAll
)

// Achievement is one row of the achievement table plus its run progress.
type Achievement struct {
	ID       string
	Name     string
	Desc     string
	Type     AchievementType
	Key      string // counter key, area name, color name, collected item or special event
	Goal     int
	Progress int
	Unlocked bool
}

// special events
const (
	eventBatByOrange     = "destroy_bat_with_orange"
	eventSynergyPair     = "synergy_pair"
	eventSynergyTriple   = "synergy_triple"
	eventAdjacentRed     = "synergy_adjacent_red"
	eventComboElemental  = "combo_fire_suction_bounce_fire"
	eventComboYellowBlue = "combo_yellow_blue_bounce_chain"
)

// synergyWindow is how far back distinct power uses count toward a synergy.
const synergyWindow = 300

func score(id, name, desc string, goal int) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeScore, Goal: goal}
}

func counter(id, name, desc, key string, goal int) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeCounter, Key: key, Goal: goal}
}

func collect(id, name, desc, item string) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeCollect, Key: item}
}

func special(id, name, desc, event string) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeSpecial, Key: event}
}

func area(id, name, desc, key string, goal int) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeArea, Key: key, Goal: goal}
}

func original(id, name, desc string, goal int) Achievement {
	return Achievement{ID: id, Name: name, Desc: desc, Type: TypeOriginal, Goal: goal}
}

func flock(c BirdColor, goal int, noun string) Achievement {
	name := c.String()
	title := string(name[0]-'a'+'A') + name[1:]
	return Achievement{
		ID:   fmt.Sprintf("count_%s_%d", name, goal),
		Name: title + " " + noun,
		Desc: fmt.Sprintf("Have %d %s birds on screen", goal, name),
		Type: TypeColorCount,
		Key:  name,
		Goal: goal,
	}
}

// achievementTable returns a fresh copy of every achievement.
func achievementTable() []Achievement {
	t := []Achievement{
		score("score_1k", "Novice", "Reach 1,000 points", 1000),
		score("score_5k", "Expert", "Reach 5,000 points", 5000),
		score("score_20k", "Veteran", "Reach 20,000 points", 20000),
		score("score_70k", "Legend", "Reach 70,000 points", 70000),

		counter("swap_1", "Swapping Lanes", "Use swap once", "swaps", 1),
		counter("swap_10", "Rearranger", "Use swap 10 times", "swaps", 10),
		counter("swap_100", "OCD", "Use swap 100 times", "swaps", 100),

		collect("collect_purple", "The Fearless", "Collect a purple egg", "purple_egg"),
		collect("collect_clockwork", "The Bot", "Collect a clockwork egg", "clockwork_egg"),
		collect("collect_white", "The Phantom", "Collect a white egg", "white_egg"),
		collect("collect_orange", "The Phoenix", "Collect an orange egg", "orange_egg"),
		collect("collect_blue", "Baby Blue", "Collect a blue egg", "blue_egg"),

		special("destroy_bat_orange", "Phoenix Fire", "Destroy a bat with an orange bird", eventBatByOrange),
		counter("destroy_obstacle_10", "Breaker I", "Destroy 10 obstacles", "obstacles_destroyed", 10),
		counter("destroy_obstacle_100", "Breaker II", "Destroy 100 obstacles", "obstacles_destroyed", 100),
		counter("destroy_bat_10", "Bat Slayer I", "Destroy 10 bats", "bats_destroyed", 10),
		counter("destroy_bat_100", "Bat Slayer II", "Destroy 100 bats", "bats_destroyed", 100),
		counter("destroy_bat_t1_10", "Tier1 Slayer", "Destroy 10 tier1 bats", "bats_destroyed_tier1", 10),
		counter("destroy_bat_t2_10", "Tier2 Slayer", "Destroy 10 tier2 bats", "bats_destroyed_tier2", 10),
		counter("destroy_bat_t3_10", "Tier3 Slayer", "Destroy 10 tier3 bats", "bats_destroyed_tier3", 10),
		counter("destroy_bat_t4_1", "Tier4 Hunter", "Destroy 1 tier4 bat", "bats_destroyed_tier4", 1),
		counter("destroy_bat_t4_10", "Tier4 Slayer", "Destroy 10 tier4 bats", "bats_destroyed_tier4", 10),

		counter("power_yellow_1", "Chirp", "Use Yellow power once", "power_yellow", 1),
		counter("power_yellow_10", "Mockingbird", "Use Yellow power 10 times", "power_yellow", 10),
		counter("power_red_1", "Ember", "Use Red power once", "power_red", 1),
		counter("power_red_10", "Flame", "Use Red power 10 times", "power_red", 10),
		counter("power_blue_1", "Sprint", "Use Blue power once", "power_blue", 1),
		counter("power_blue_10", "Haste", "Use Blue power 10 times", "power_blue", 10),
		counter("power_white_1", "Encourage!", "Use White power once", "power_white", 1),
		counter("power_white_10", "Brave Bird", "Use White power 10 times", "power_white", 10),
		counter("power_wide_cursor_1", "Cursor Novice", "Use Wide Cursor once", "power_wide_cursor", 1),
		counter("power_wide_cursor_10", "Cursor Expert", "Use Wide Cursor 10 times", "power_wide_cursor", 10),
		counter("power_tailwind_1", "Tailwind Novice", "Use Tailwind once", "power_tailwind", 1),
		counter("power_tailwind_10", "Tailwind Expert", "Use Tailwind 10 times", "power_tailwind", 10),
		counter("power_shuffle_1", "Shuffle Novice", "Use Shuffle once", "power_shuffle", 1),
		counter("power_shuffle_10", "Shuffle Expert", "Use Shuffle 10 times", "power_shuffle", 10),

		special("synergy_pair", "Get Along", "Trigger two different powers in quick succession", eventSynergyPair),
		special("synergy_triple", "Frenship Is Magic", "Trigger three different powers in quick succession", eventSynergyTriple),
		special("synergy_adjacent_red", "Crimson Link", "Trigger adjacent red synergy", eventAdjacentRed),
		special("combo_fire_suction_bounce_fire", "Elemental Chain", "Perform Fire → Suction → Bounce → Fire combo", eventComboElemental),
		special("combo_yellow_blue_bounce_chain", "Fearless Flip", "Perform the Yellow→Blue bounce chain combo", eventComboYellowBlue),

		area("hold_top50_100", "Sky Keepers I", "Keep all birds in top 50% for 100 frames", "top50", 100),
		area("hold_top50_200", "High Skies", "Keep all birds in top 50% for a while", "top50", 200),
		area("hold_top30_200", "Cloud Nine I", "Keep all birds in top 30% for 200 frames", "top30", 200),
		area("hold_top30_400", "Heavenly", "Keep all birds in top 30% for longer", "top30", 400),

		original("original_alive_300", "Careful", "Keep original birds alive for some time", 300),
		original("original_alive_700", "Responsible", "Keep original birds alive for a long time", 700),
		original("original_alive_2000", "Survivalist", "Keep original birds alive for a very long time", 2000),

		{ID: "count_all_9", Name: "Nine of a Kind", Desc: "Have all 9 birds of the same color", Type: TypeColorCountAll, Goal: 9},
	}
	for _, c := range []BirdColor{Yellow, Red, Blue, White, Clockwork, Purple, Orange} {
		t = append(t, flock(c, 5, "Flock"), flock(c, 7, "Horde"))
	}
	return t
}

// countedColors are the colors checked for flock achievements each frame.
var countedColors = [...]BirdColor{Yellow, Red, Blue, White, Clockwork, Purple, Orange, Gold}

type powerUse struct {
	name  string
	frame int
}

// tracker evaluates achievements and combos against gameplay events.
type tracker struct {
	w     *World
	list  []Achievement
	index map[string]int

	powers    []powerUse
	top50     int
	top30     int
	originals int

	actions   actionLog
	cooldowns map[string]int
	combos    int
	order     []string // unlocked ids, oldest first
}

func newTracker(w *World) *tracker {
	t := &tracker{w: w}
	t.reset()
	return t
}

func (t *tracker) reset() {
	t.list = achievementTable()
	t.index = make(map[string]int, len(t.list))
	for i, a := range t.list {
		t.index[a.ID] = i
	}
	t.powers = nil
	t.top50, t.top30, t.originals = 0, 0, 0
	t.actions = actionLog{}
	t.cooldowns = make(map[string]int)
	t.combos = 0
	t.order = nil
}

// unlock marks id unlocked and announces it once. It reports whether this
// call did the unlocking.
func (t *tracker) unlock(id string) bool {
	i, ok := t.index[id]
	if !ok || t.list[i].Unlocked {
		return false
	}
	a := &t.list[i]
	a.Unlocked = true
	t.order = append(t.order, a.ID)
	t.w.Notify("Achievement unlocked: " + a.Name)
	t.w.sink.UnlockAchievement(a.ID)
	t.w.sink.LogEvent("achievement_unlocked", map[string]any{"id": a.ID, "name": a.Name})
	return true
}

// each runs fn over the still-locked achievements of one type.
func (t *tracker) each(typ AchievementType, fn func(a *Achievement)) {
	for i := range t.list {
		if a := &t.list[i]; a.Type == typ && !a.Unlocked {
			fn(a)
		}
	}
}

func (t *tracker) reach(typ AchievementType, key string, value int) {
	t.each(typ, func(a *Achievement) {
		if a.Key == key && value >= a.Goal {
			t.unlock(a.ID)
		}
	})
}

func (t *tracker) bump(key string) {
	t.each(TypeCounter, func(a *Achievement) {
		if a.Key != key {
			return
		}
		a.Progress++
		if a.Progress >= a.Goal {
			t.unlock(a.ID)
		}
	})
}

func (t *tracker) onScore(score float64) {
	t.each(TypeScore, func(a *Achievement) {
		if score >= float64(a.Goal) {
			t.unlock(a.ID)
		}
	})
}

func (t *tracker) onSwap(total int) {
	t.reach(TypeCounter, "swaps", total)
}

func (t *tracker) onCollect(item string) {
	t.each(TypeCollect, func(a *Achievement) {
		if a.Key == item {
			t.unlock(a.ID)
		}
	})
}

func (t *tracker) onDestroyBat(tier int) {
	t.bump("bats_destroyed")
	if tier >= 1 && tier <= 4 {
		t.bump(fmt.Sprintf("bats_destroyed_tier%d", tier))
	}
}

func (t *tracker) onDestroyObstacle() {
	t.bump("obstacles_destroyed")
}

func (t *tracker) onSpecial(event string) {
	t.each(TypeSpecial, func(a *Achievement) {
		if a.Key == event {
			t.unlock(a.ID)
		}
	})
}

// onPowerUsed counts a power, checks synergies and feeds fire into the
// combo log. lane is -1 for field power-ups.
func (t *tracker) onPowerUsed(name string, lane int, color BirdColor) {
	now := t.w.frame
	t.w.sink.LogEvent("power_used", map[string]any{"power": name, "lane": lane})
	t.bump("power_" + name)

	t.powers = append(t.powers, powerUse{name: name, frame: now})
	kept := t.powers[:0]
	distinct := map[string]struct{}{}
	for _, p := range t.powers {
		if now-p.frame <= synergyWindow {
			kept = append(kept, p)
			distinct[p.name] = struct{}{}
		}
	}
	t.powers = kept
	if len(distinct) >= 2 {
		t.onSpecial(eventSynergyPair)
	}
	if len(distinct) >= 3 {
		t.onSpecial(eventSynergyTriple)
	}

	if name == "red" || name == "purple" {
		t.record(actionFire, lane, color)
	}
}

// onFrame checks the conditions that must hold for many frames in a row.
func (t *tracker) onFrame() {
	w := t.w
	live := 0
	all50, all30, originals := true, true, true
	for i := range w.Birds {
		b := &w.Birds[i]
		if b.Lost {
			originals = false
			continue
		}
		live++
		if b.Y > Height/2 {
			all50 = false
		}
		if b.Y > Height*3/10 {
			all30 = false
		}
	}

	if live > 0 {
		t.top50 = holdFrames(all50, t.top50)
		t.top30 = holdFrames(all30, t.top30)
		t.reach(TypeArea, "top50", t.top50)
		t.reach(TypeArea, "top30", t.top30)
	}

	t.originals = holdFrames(originals, t.originals)
	t.each(TypeOriginal, func(a *Achievement) {
		if t.originals >= a.Goal {
			t.unlock(a.ID)
		}
	})

	for _, c := range countedColors {
		n := w.colorCount(c)
		t.reach(TypeColorCount, c.String(), n)
		if n >= NumLanes {
			t.each(TypeColorCountAll, func(a *Achievement) {
				if n >= a.Goal {
					t.unlock(a.ID)
				}
			})
		}
	}
}

func holdFrames(ok bool, n int) int {
	if ok {
		return n + 1
	}
	return 0
}

// Achievements returns a copy of the table with this run's progress.
func (w *World) Achievements() []Achievement {
	out := make([]Achievement, len(w.ach.list))
	copy(out, w.ach.list)
	return out
}

// Unlocked lists the ids unlocked so far in unlock order.
func (w *World) Unlocked() []string {
	return append([]string(nil), w.ach.order...)
}

// AchievementCatalog returns the achievement table with no progress.
func AchievementCatalog() []Achievement {
	return achievementTable()
}
