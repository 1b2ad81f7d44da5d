package telemetry

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

type msgKind uint8

const (
	kindScore msgKind = iota
	kindEvent
	kindUnlock
	kindCrash
	kindSync
)

func (k msgKind) String() string {
	switch k {
	case kindScore:
		return "score"
	case kindEvent:
		return "event"
	case kindUnlock:
		return "unlock"
	case kindCrash:
		return "crash"
	default:
		return "sync"
	}
}

type message struct {
	kind   msgKind
	name   string
	params map[string]any
	score  Score
	crash  Crash
	ids    []string
}

// QueueOptions tunes a Queue. Zero values pick the defaults.
type QueueOptions struct {
	Size      int           // buffered messages, default 256
	OpTimeout time.Duration // per delivery, default 5s
	Logger    *log.Logger
}

// Queue hands telemetry to a Sink on its own goroutine. Submissions never
// block: when the buffer is full the message is dropped and counted.
// Queue satisfies core.EventSink.
type Queue struct {
	sink    Sink
	ch      chan message
	timeout time.Duration
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewQueue starts the worker for sink.
func NewQueue(sink Sink, opts QueueOptions) *Queue {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		sink:    sink,
		ch:      make(chan message, opts.Size),
		timeout: opts.OpTimeout,
		logger:  opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for m := range q.ch {
		ctx, cancel := context.WithTimeout(q.ctx, q.timeout)
		err := q.deliver(ctx, m)
		cancel()
		if err != nil {
			q.failed.Add(1)
			q.logger.Debug("telemetry delivery failed", "kind", m.kind, "name", m.name, "error", err)
			continue
		}
		q.delivered.Add(1)
	}
}

func (q *Queue) deliver(ctx context.Context, m message) error {
	switch m.kind {
	case kindScore:
		return q.sink.SubmitScore(ctx, m.score)
	case kindEvent:
		return q.sink.LogEvent(ctx, m.name, m.params)
	case kindUnlock:
		return q.sink.UnlockAchievement(ctx, m.name)
	case kindCrash:
		return q.sink.ReportCrash(ctx, m.crash)
	default:
		return q.sink.SyncAchievements(ctx, m.ids)
	}
}

func (q *Queue) enqueue(m message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- m:
	default:
		q.dropped.Add(1)
	}
	return nil
}

// LogEvent queues a gameplay event. params is copied.
func (q *Queue) LogEvent(name string, params map[string]any) {
	q.enqueue(message{kind: kindEvent, name: name, params: maps.Clone(params)}) //nolint:errcheck // Best-effort
}

// UnlockAchievement queues an unlock.
func (q *Queue) UnlockAchievement(id string) {
	q.enqueue(message{kind: kindUnlock, name: id}) //nolint:errcheck // Best-effort
}

// SubmitScore queues a finished run.
func (q *Queue) SubmitScore(s Score) error {
	return q.enqueue(message{kind: kindScore, name: s.Name, score: s})
}

// ReportCrash queues a crash report.
func (q *Queue) ReportCrash(c Crash) error {
	c.Snapshot = append([]byte(nil), c.Snapshot...)
	return q.enqueue(message{kind: kindCrash, crash: c})
}

// SyncAchievements queues the full list of locally unlocked ids.
func (q *Queue) SyncAchievements(ids []string) error {
	return q.enqueue(message{kind: kindSync, ids: append([]string(nil), ids...)})
}

// Close stops accepting messages and waits up to timeout for the backlog to
// drain. Whatever is still in flight after the timeout is cancelled. The
// sink is closed either way.
func (q *Queue) Close(timeout time.Duration) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-q.done:
	case <-timer.C:
		q.logger.Warn("telemetry flush timed out", "pending", len(q.ch))
		q.cancel()
		<-q.done
	}
	q.cancel()
	return q.sink.Close()
}

// Stats reports delivered, failed and dropped message counts.
func (q *Queue) Stats() (delivered, failed, dropped int64) {
	return q.delivered.Load(), q.failed.Load(), q.dropped.Load()
}
