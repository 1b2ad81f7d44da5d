package birds

import (
	"slices"

	"github.com/vovakirdan/tui-birds/internal/core"
)

var rarityWeights = [5][]int{
	{},
	{60, 25, 10, 5},
	{50, 30, 15, 5},
	{40, 33, 17, 10},
	{35, 25, 20, 15},
}

// eggOdds is the egg chance indexed by the number of empty lanes.
var eggOdds = [...]float64{0, 0.25, 0.35, 0.45, 0.55}

type eggCandidate struct {
	color  BirdColor
	weight int
}

var eggCandidates = [4][]eggCandidate{
	Common:   {{Yellow, 70}, {Clockwork, 30}},
	Uncommon: {{Red, 30}, {Blue, 30}, {Patchwork, 20}, {Purple, 20}},
	Rare:     {{Blue, 40}, {Clockwork, 30}, {Gold, 15}, {Stealth, 15}},
	Epic:     {{White, 50}, {Orange, 50}},
}

func (w *World) rollRarity(tier int) Rarity {
	tier = min(max(tier, 1), 4)
	return Rarity(weighted(w.rng, rarityWeights[tier]))
}

// emptyLanes counts lanes whose bird is lost.
func (w *World) emptyLanes() int {
	n := 0
	for i := range w.Birds {
		if w.Birds[i].Lost {
			n++
		}
	}
	return n
}

// chooseItem picks what a drop of the given rarity contains.
func (w *World) chooseItem(r Rarity) Item {
	empty := w.emptyLanes()
	odds := eggOdds[min(empty, len(eggOdds)-1)]
	if odds > 0 && w.rng.Float64() < odds {
		if egg, ok := w.chooseEgg(r); ok {
			return Item{Kind: LootEgg, Egg: egg}
		}
	}
	return w.choosePowerUp(r)
}

func (w *World) chooseEgg(r Rarity) (BirdColor, bool) {
	var colors []BirdColor
	var weights []int
	for _, c := range eggCandidates[r] {
		if limit := c.color.fieldCap(); limit > 0 && w.colorCount(c.color) >= limit {
			continue
		}
		colors = append(colors, c.color)
		weights = append(weights, c.weight)
	}
	i := weighted(w.rng, weights)
	if i < 0 {
		return 0, false
	}
	return colors[i], true
}

func (w *World) choosePowerUp(r Rarity) Item {
	if len(w.families) == 0 {
		return Item{Kind: LootEgg, Egg: Yellow}
	}
	return Item{Kind: w.families[w.rng.Intn(len(w.families))], Tier: int(r) + 1}
}

// dropLoot leaves one item where an enemy died.
func (w *World) dropLoot(lane, y, tier int) {
	r := w.rollRarity(tier)
	w.Loot = append(w.Loot, Loot{
		Lane:   lane,
		Y:      y,
		Item:   w.chooseItem(r),
		Rarity: r,
		Born:   w.clock,
	})
}

// collectLoot picks up every item within reach of bird i.
func (w *World) collectLoot(i int) {
	b := &w.Birds[i]
	if b.Color == Stealth && w.stealth[i] == 0 {
		return
	}
	x := LanePositions[w.lanes[i]]
	for k := 0; k < len(w.Loot); {
		l := w.Loot[k]
		if l.Nest || core.Abs(LanePositions[l.Lane]-x) > 2 || core.Abs(b.Y-l.Y) > 2 {
			k++
			continue
		}
		w.Loot = slices.Delete(w.Loot, k, k+1)
		name := l.Item.String()
		w.ach.onCollect(name)
		w.sink.LogEvent("loot_collected", map[string]any{"item": name, "rarity": l.Rarity.String()})
		w.applyItem(l.Item)
	}
}

func (w *World) applyItem(it Item) {
	if it.Kind == LootEgg {
		w.hatchEgg(it.Egg)
		return
	}
	w.applyPowerUp(it.Kind, it.Tier)
}

// hatchEgg brings the first lost bird back as color. With no lost bird the
// egg is wasted.
func (w *World) hatchEgg(color BirdColor) {
	for i := range w.Birds {
		if !w.Birds[i].Lost {
			continue
		}
		w.Birds[i] = Bird{Color: color, Speed: color.BaseSpeed()}
		if color == Clockwork {
			w.Birds[i].Charge = 2
		}
		w.Birds[i].launch()
		w.clearEffects(i)
		w.lives++
		return
	}
}

func (w *World) clearEffects(i int) {
	w.boost[i] = 0
	w.scared[i] = 0
	w.stealth[i] = 0
	w.prevSpeed[i] = 0
}

// nestIndex finds the egg loot left by the suspended bird in lane.
func (w *World) nestIndex(lane int) int {
	for k, l := range w.Loot {
		if l.Nest && l.Lane == lane {
			return k
		}
	}
	return -1
}
