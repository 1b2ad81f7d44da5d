// Package telemetry carries scores, gameplay events, achievement unlocks and
// crash reports from the game to local storage and an optional remote
// collector. The game talks to a Queue, which never blocks it; a single
// worker goroutine feeds the configured Sink.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Version is reported with every score and crash.
const Version = "0.5.0"

var (
	// ErrQueueClosed is returned for submissions after Close.
	ErrQueueClosed = errors.New("telemetry: queue closed")
	// ErrNotConnected is returned by a remote sink that has no endpoint.
	ErrNotConnected = errors.New("telemetry: not connected")
)

// Score is a finished run.
type Score struct {
	Name       string  `json:"name" msgpack:"name"`
	Score      int     `json:"score" msgpack:"score"`
	Level      int     `json:"level" msgpack:"level"`
	Swaps      int     `json:"swaps" msgpack:"swaps"`
	Elapsed    float64 `json:"elapsed" msgpack:"elapsed"` // seconds
	ElapsedStr string  `json:"elapsed_str" msgpack:"elapsed_str"`
	Version    string  `json:"version" msgpack:"version"`
	AvgPPM     float64 `json:"avg_ppm" msgpack:"avg_ppm"`
}

// Crash is a recovered panic with the world state at the time.
type Crash struct {
	Trace    string `json:"trace" msgpack:"trace"`
	Snapshot []byte `json:"snapshot,omitempty" msgpack:"snapshot"`
	Version  string `json:"version" msgpack:"version"`
}

// Sink delivers telemetry somewhere. Calls may block up to the context
// deadline; only the Queue worker calls them.
type Sink interface {
	SubmitScore(ctx context.Context, s Score) error
	LogEvent(ctx context.Context, name string, params map[string]any) error
	UnlockAchievement(ctx context.Context, id string) error
	ReportCrash(ctx context.Context, c Crash) error
	SyncAchievements(ctx context.Context, ids []string) error
	Close() error
}

// NewScore fills the derived fields of a score.
func NewScore(name string, score, level, swaps int, elapsed time.Duration) Score {
	return Score{
		Name:       name,
		Score:      score,
		Level:      level,
		Swaps:      swaps,
		Elapsed:    elapsed.Seconds(),
		ElapsedStr: FormatElapsed(elapsed),
		Version:    Version,
		AvgPPM:     AvgPPM(score, elapsed),
	}
}

// AvgPPM is points per minute; under a full minute of play it is the score.
func AvgPPM(score int, elapsed time.Duration) float64 {
	minutes := int(elapsed / time.Minute)
	if minutes == 0 {
		return float64(score)
	}
	return float64(score) / elapsed.Minutes()
}

// FormatElapsed renders mm:ss, or hh:mm:ss from one hour on.
func FormatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Nop discards everything.
type Nop struct{}

func (Nop) SubmitScore(context.Context, Score) error { return nil }
func (Nop) LogEvent(context.Context, string, map[string]any) error { return nil }
func (Nop) UnlockAchievement(context.Context, string) error { return nil }
func (Nop) ReportCrash(context.Context, Crash) error { return nil }
func (Nop) SyncAchievements(context.Context, []string) error { return nil }
func (Nop) Close() error { return nil }

// Multi fans every call out to all sinks and joins their errors.
type Multi []Sink

func (m Multi) each(fn func(Sink) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SubmitScore(ctx context.Context, s Score) error {
	return m.each(func(x Sink) error { return x.SubmitScore(ctx, s) })
}

func (m Multi) LogEvent(ctx context.Context, name string, params map[string]any) error {
	return m.each(func(x Sink) error { return x.LogEvent(ctx, name, params) })
}

func (m Multi) UnlockAchievement(ctx context.Context, id string) error {
	return m.each(func(x Sink) error { return x.UnlockAchievement(ctx, id) })
}

func (m Multi) ReportCrash(ctx context.Context, c Crash) error {
	return m.each(func(x Sink) error { return x.ReportCrash(ctx, c) })
}

func (m Multi) SyncAchievements(ctx context.Context, ids []string) error {
	return m.each(func(x Sink) error { return x.SyncAchievements(ctx, ids) })
}

func (m Multi) Close() error {
	return m.each(func(x Sink) error { return x.Close() })
}
