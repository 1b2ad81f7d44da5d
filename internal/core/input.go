package core

// Action is a semantic input, decoupled from physical keys.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // move cursor left
	ActionRight        // move cursor right
	ActionUp           // bounce / trigger ability
	ActionDown         // pull down (suction)
	ActionSwap         // select / confirm lane swap
	ActionPause        // toggle pause
	ActionQuit         // leave the game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionSwap:
		return "Swap"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the input for one simulation tick.
type InputFrame struct {
	Actions map[Action]bool

	// Raw holds the last key that did not map to an action, or 0.
	Raw rune
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether nothing was pressed.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.Raw == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Raw = 0
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Raw = f.Raw
	return clone
}
