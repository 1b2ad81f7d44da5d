package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is one JSON frame sent to the collector.
type Envelope struct {
	Type      string         `json:"type"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	Time      time.Time      `json:"time"`
	Name      string         `json:"name,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Score     *Score         `json:"score,omitempty"`
	Crash     *Crash         `json:"crash,omitempty"`
	IDs       []string       `json:"ids,omitempty"`
}

const writeWait = 10 * time.Second

// WebSocketSink streams envelopes to a collector. The connection is dialed
// on first use and redialed after a failed write.
type WebSocketSink struct {
	url       string
	userID    string
	sessionID string
	dialer    *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketSink creates a sink for url. An empty url yields a sink that
// fails every call with ErrNotConnected.
func NewWebSocketSink(url string, id Identity) *WebSocketSink {
	return &WebSocketSink{
		url:       url,
		userID:    id.UserID,
		sessionID: id.SessionID,
		dialer:    websocket.DefaultDialer,
	}
}

func (s *WebSocketSink) connect(ctx context.Context) (*websocket.Conn, error) {
	if s.conn != nil {
		return s.conn, nil
	}
	if s.url == "" {
		return nil, ErrNotConnected
	}
	header := http.Header{}
	header.Set("X-Birds-Version", Version)
	conn, _, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial %s: %w", s.url, err)
	}
	s.conn = conn
	return conn, nil
}

func (s *WebSocketSink) send(ctx context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	env.UserID, env.SessionID = s.userID, s.sessionID
	env.Time = time.Now().UTC()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(env); err != nil {
		conn.Close()
		s.conn = nil
		return fmt.Errorf("telemetry: write %s: %w", env.Type, err)
	}
	return nil
}

func (s *WebSocketSink) SubmitScore(ctx context.Context, sc Score) error {
	return s.send(ctx, Envelope{Type: "score", Score: &sc})
}

func (s *WebSocketSink) LogEvent(ctx context.Context, name string, params map[string]any) error {
	return s.send(ctx, Envelope{Type: "event", Name: name, Params: params})
}

func (s *WebSocketSink) UnlockAchievement(ctx context.Context, id string) error {
	return s.send(ctx, Envelope{Type: "unlock", Name: id})
}

func (s *WebSocketSink) ReportCrash(ctx context.Context, c Crash) error {
	return s.send(ctx, Envelope{Type: "crash", Crash: &c})
}

func (s *WebSocketSink) SyncAchievements(ctx context.Context, ids []string) error {
	return s.send(ctx, Envelope{Type: "sync", IDs: ids})
}

// Close sends a close frame and drops the connection.
func (s *WebSocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := s.conn.Close()
	s.conn = nil
	return err
}
