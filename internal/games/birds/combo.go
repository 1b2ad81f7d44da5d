package birds

import "github.com/vovakirdan/tui-birds/internal/core"

// ActionKind is an atomic player action the combo detector watches.
type ActionKind uint8

const (
	actionBounce ActionKind = iota
	actionFire
	actionSuction
	actionStealth
)

func (k ActionKind) String() string {
	switch k {
	case actionBounce:
		return "bounce"
	case actionFire:
		return "fire"
	case actionSuction:
		return "suction"
	default:
		return "stealth"
	}
}

// RecentAction is one entry of the combo log.
type RecentAction struct {
	Kind  ActionKind
	Frame int
	Lane  int
	Color BirdColor
}

const (
	actionLogSize   = 64
	comboWindow     = 200
	yellowBlueChain = 60
)

var elementalPattern = [...]ActionKind{actionFire, actionSuction, actionBounce, actionFire}

// actionLog is a fixed ring buffer; pushing onto a full log drops the oldest.
type actionLog struct {
	buf   [actionLogSize]RecentAction
	start int
	n     int
}

func (l *actionLog) push(a RecentAction) {
	if l.n == actionLogSize {
		l.buf[l.start] = a
		l.start = (l.start + 1) % actionLogSize
		return
	}
	l.buf[(l.start+l.n)%actionLogSize] = a
	l.n++
}

// at returns the i-th entry, oldest first.
func (l *actionLog) at(i int) RecentAction {
	return l.buf[(l.start+i)%actionLogSize]
}

func (l *actionLog) len() int { return l.n }

// prune drops entries older than the window.
func (l *actionLog) prune(now, window int) {
	for l.n > 0 && now-l.buf[l.start].Frame > window {
		l.start = (l.start + 1) % actionLogSize
		l.n--
	}
}

// record logs an action and runs the combo detectors.
func (t *tracker) record(kind ActionKind, lane int, color BirdColor) {
	now := t.w.frame
	t.actions.push(RecentAction{Kind: kind, Frame: now, Lane: lane, Color: color})
	t.actions.prune(now, comboWindow)
	t.detectCombos(now)
}

func (t *tracker) comboReady(event string, now int) bool {
	return t.cooldowns[event] <= now
}

// fireCombo counts a performed combo, unlocks its achievement and starts
// the cooldown. Detections inside the cooldown are ignored.
func (t *tracker) fireCombo(event string, now, cooldown int) {
	if !t.comboReady(event, now) {
		return
	}
	t.cooldowns[event] = now + cooldown
	t.combos++
	t.w.sink.LogEvent("combo_performed", map[string]any{"combo": event, "frame": now})
	t.onSpecial(event)
}

func (t *tracker) detectCombos(now int) {
	log := &t.actions

	// fire -> suction -> bounce -> fire, as an ordered subsequence
	matched, first, last := 0, 0, 0
	for i := 0; i < log.len() && matched < len(elementalPattern); i++ {
		a := log.at(i)
		if a.Kind != elementalPattern[matched] {
			continue
		}
		if matched == 0 {
			first = a.Frame
		}
		last = a.Frame
		matched++
	}
	if matched == len(elementalPattern) && last-first <= comboWindow {
		t.fireCombo(eventComboElemental, now, comboWindow)
	}

	// a yellow bounce followed by a blue bounce in a neighbouring lane
	for i := 0; i < log.len(); i++ {
		a := log.at(i)
		if a.Kind != actionBounce || a.Color != Yellow {
			continue
		}
		for j := i + 1; j < log.len(); j++ {
			b := log.at(j)
			if b.Kind != actionBounce || b.Color != Blue {
				continue
			}
			if core.Abs(a.Lane-b.Lane) == 1 && b.Frame-a.Frame <= yellowBlueChain {
				t.fireCombo(eventComboYellowBlue, now, yellowBlueChain)
				return
			}
		}
	}
}

// RecentActions returns the combo log, oldest first.
func (w *World) RecentActions() []RecentAction {
	out := make([]RecentAction, 0, w.ach.actions.len())
	for i := 0; i < w.ach.actions.len(); i++ {
		out = append(out, w.ach.actions.at(i))
	}
	return out
}

// Combos returns how many combos were performed this run.
func (w *World) Combos() int { return w.ach.combos }
