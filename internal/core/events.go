package core

// EventSink receives fire-and-forget gameplay notifications. Implementations
// must not block the caller and must not panic back into the simulation.
type EventSink interface {
	LogEvent(name string, params map[string]any)
	UnlockAchievement(id string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) LogEvent(string, map[string]any) {}
func (NopSink) UnlockAchievement(string) {}
