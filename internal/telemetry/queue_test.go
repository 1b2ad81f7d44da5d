package telemetry

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-birds/internal/core"
)

var _ core.EventSink = (*Queue)(nil)

type recordingSink struct {
	mu      sync.Mutex
	calls   []string
	scores  []Score
	crashes []Crash
	synced  []string
	fail    error
	closed  bool

	started chan struct{} // signalled when a call begins, if set
	release chan struct{} // calls block until closed, if set
}

func (s *recordingSink) record(call string) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.fail
}

func (s *recordingSink) SubmitScore(_ context.Context, sc Score) error {
	s.mu.Lock()
	s.scores = append(s.scores, sc)
	s.mu.Unlock()
	return s.record("score:" + sc.Name)
}

func (s *recordingSink) LogEvent(_ context.Context, name string, _ map[string]any) error {
	return s.record("event:" + name)
}

func (s *recordingSink) UnlockAchievement(_ context.Context, id string) error {
	return s.record("unlock:" + id)
}

func (s *recordingSink) ReportCrash(_ context.Context, c Crash) error {
	s.mu.Lock()
	s.crashes = append(s.crashes, c)
	s.mu.Unlock()
	return s.record("crash")
}

func (s *recordingSink) SyncAchievements(_ context.Context, ids []string) error {
	s.mu.Lock()
	s.synced = append(s.synced, ids...)
	s.mu.Unlock()
	return s.record("sync")
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestQueueDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	q := NewQueue(sink, QueueOptions{Logger: quietLogger()})

	q.LogEvent("session_start", map[string]any{"seed": 1})
	q.UnlockAchievement("score_1k")
	if err := q.SubmitScore(NewScore("ann", 1200, 1, 0, 90*time.Second)); err != nil {
		t.Fatalf("SubmitScore() error = %v", err)
	}
	if err := q.SyncAchievements([]string{"score_1k", "swap_1"}); err != nil {
		t.Fatalf("SyncAchievements() error = %v", err)
	}
	if err := q.ReportCrash(Crash{Trace: "panic", Version: Version}); err != nil {
		t.Fatalf("ReportCrash() error = %v", err)
	}

	if err := q.Close(time.Second); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := []string{"event:session_start", "unlock:score_1k", "score:ann", "sync", "crash"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, sink.calls[i], want[i])
		}
	}
	if !sink.closed {
		t.Error("Close should close the sink")
	}
	if d, f, dr := q.Stats(); d != 5 || f != 0 || dr != 0 {
		t.Errorf("stats = %d/%d/%d, want 5/0/0", d, f, dr)
	}
}

func TestQueueCopiesParams(t *testing.T) {
	sink := &recordingSink{}
	q := NewQueue(sink, QueueOptions{Logger: quietLogger()})

	ids := []string{"a"}
	if err := q.SyncAchievements(ids); err != nil {
		t.Fatal(err)
	}
	ids[0] = "mutated"
	q.Close(time.Second) //nolint:errcheck // test

	if len(sink.synced) != 1 || sink.synced[0] != "a" {
		t.Errorf("synced = %v, want the value at submission time", sink.synced)
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	sink := &recordingSink{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	q := NewQueue(sink, QueueOptions{Size: 1, Logger: quietLogger()})

	q.LogEvent("first", nil)
	<-sink.started // worker is now blocked inside the sink

	q.LogEvent("second", nil) // fills the buffer
	q.LogEvent("third", nil)  // dropped

	if _, _, dropped := q.Stats(); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}

	close(sink.release)
	q.Close(time.Second) //nolint:errcheck // test

	if len(sink.calls) != 2 || sink.calls[1] != "event:second" {
		t.Errorf("calls = %v, want first and second", sink.calls)
	}
}

func TestQueueSwallowsSinkErrors(t *testing.T) {
	sink := &recordingSink{fail: errors.New("collector down")}
	q := NewQueue(sink, QueueOptions{Logger: quietLogger()})

	q.LogEvent("a", nil)
	q.UnlockAchievement("b")
	q.Close(time.Second) //nolint:errcheck // test

	if d, f, _ := q.Stats(); d != 0 || f != 2 {
		t.Errorf("delivered=%d failed=%d, want 0 and 2", d, f)
	}
}

func TestQueueClosed(t *testing.T) {
	sink := &recordingSink{}
	q := NewQueue(sink, QueueOptions{Logger: quietLogger()})
	q.Close(time.Second) //nolint:errcheck // test

	if err := q.SubmitScore(Score{}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("SubmitScore after Close = %v, want ErrQueueClosed", err)
	}
	q.LogEvent("late", nil) // must not panic
	if err := q.Close(time.Second); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if len(sink.calls) != 0 {
		t.Errorf("calls = %v, want none", sink.calls)
	}
}

func TestQueueCloseTimeout(t *testing.T) {
	sink := &recordingSink{release: make(chan struct{})}
	q := NewQueue(sink, QueueOptions{Logger: quietLogger()})
	q.LogEvent("stuck", nil)

	go func() {
		time.Sleep(100 * time.Millisecond)
		close(sink.release)
	}()
	start := time.Now()
	q.Close(20 * time.Millisecond) //nolint:errcheck // test
	if time.Since(start) > 2*time.Second {
		t.Error("Close should not hang on a stuck sink")
	}
}

func TestMulti(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{fail: errors.New("nope")}
	m := Multi{a, b, Nop{}}

	err := m.LogEvent(context.Background(), "x", nil)
	if err == nil {
		t.Error("Multi should report the failing sink")
	}
	if len(a.calls) != 1 || len(b.calls) != 1 {
		t.Error("every sink should be called")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("every sink should be closed")
	}
}

func TestScoreMath(t *testing.T) {
	tests := []struct {
		score   int
		elapsed time.Duration
		ppm     float64
		str     string
	}{
		{500, 30 * time.Second, 500, "00:30"},
		{1200, 2 * time.Minute, 600, "02:00"},
		{3000, 90 * time.Second, 2000, "01:30"},
		{0, 0, 0, "00:00"},
		{7200, time.Hour + 2*time.Minute + 3*time.Second, 7200 / (62 + 3.0/60), "01:02:03"},
	}
	for _, tt := range tests {
		s := NewScore("x", tt.score, 1, 0, tt.elapsed)
		if diff := s.AvgPPM - tt.ppm; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("AvgPPM(%d, %v) = %v, want %v", tt.score, tt.elapsed, s.AvgPPM, tt.ppm)
		}
		if s.ElapsedStr != tt.str {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.elapsed, s.ElapsedStr, tt.str)
		}
		if s.Version != Version {
			t.Errorf("version = %q", s.Version)
		}
	}
}
