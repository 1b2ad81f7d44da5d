package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-birds/internal/audio"
	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/registry"
	"github.com/vovakirdan/tui-birds/internal/storage"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.birds/host_key.
	HostKeyPath string

	// DBPath is the path to the shared scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// GameID selects the registered game served to every session.
	GameID string

	// Achievements feeds the scoreboard's second tab.
	Achievements []AchievementInfo

	// Telemetry configures the remote collector. Each session gets its
	// own queue.
	Telemetry telemetry.Settings

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.birds/birds.db",
		IdleTimeout: 30 * time.Minute,
		GameID:      "birds",
	}
}

// SSHServer wraps a Wish SSH server.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "birds-ssh",
		})
	}
	if _, err := registry.Create(cfg.GameID); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".birds", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionSink builds the telemetry sink for one SSH session.
func (s *SSHServer) sessionSink(id telemetry.Identity) telemetry.Sink {
	var sinks telemetry.Multi
	if s.store != nil {
		sinks = append(sinks, telemetry.NewStoreSink(s.store, s.config.GameID, id))
	}
	if s.config.Telemetry.URL != "" && !s.config.Telemetry.Disabled {
		sinks = append(sinks, telemetry.NewWebSocketSink(s.config.Telemetry.URL, id))
	}
	return sinks
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	id := telemetry.Identity{UserID: "ssh:" + sess.User(), SessionID: uuid.NewString()}
	queue := telemetry.NewQueue(s.sessionSink(id), telemetry.QueueOptions{
		Size:   s.config.Telemetry.QueueSize,
		Logger: s.logger,
	})
	go func() {
		<-sess.Context().Done()
		if err := queue.Close(5 * time.Second); err != nil {
			s.logger.Debug("telemetry close", "error", err)
		}
	}()

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
	}
	model := NewSessionModel(s.store, s.config, cfg, sess.User(), queue, s.logger)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "game", s.config.GameID)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// backToMenuMsg returns an SSH session to its title menu.
type backToMenuMsg struct{}

func backToMenu() tea.Msg { return backToMenuMsg{} }

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenBoard
)

// SessionModel manages one SSH player's flow: menu, game, scoreboard.
type SessionModel struct {
	store    *storage.Store
	server   SSHServerConfig
	config   core.RuntimeConfig
	username string
	queue    Reporter
	logger   *log.Logger

	screen sessionScreen
	menu   MenuModel
	game   Model
	board  ScoreboardModel
}

// NewSessionModel creates a session model.
func NewSessionModel(store *storage.Store, server SSHServerConfig, cfg core.RuntimeConfig, username string, queue Reporter, logger *log.Logger) SessionModel {
	m := SessionModel{
		store:    store,
		server:   server,
		config:   cfg,
		username: username,
		queue:    queue,
		logger:   logger.With("user", username),
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) title() string {
	for _, g := range registry.List() {
		if g.ID == m.server.GameID {
			return g.Title
		}
	}
	return m.server.GameID
}

func (m SessionModel) newMenu() MenuModel {
	best := 0
	if m.store != nil {
		if high, err := m.store.HighScore(m.server.GameID); err == nil {
			best = high
		}
	}
	menu := NewMenuModel(m.title(), best, m.config.ScreenW, m.config.ScreenH)
	menu.done = backToMenu
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}
	if _, ok := msg.(backToMenuMsg); ok {
		return m.leaveScreen()
	}

	var next tea.Model
	var cmd tea.Cmd
	switch m.screen {
	case screenGame:
		next, cmd = m.game.Update(msg)
		m.game = next.(Model)
	case screenBoard:
		next, cmd = m.board.Update(msg)
		m.board = next.(ScoreboardModel)
	default:
		next, cmd = m.menu.Update(msg)
		m.menu = next.(MenuModel)
	}
	return m, cmd
}

// leaveScreen runs when the current screen finished.
func (m SessionModel) leaveScreen() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenGame:
		if c := m.game.Crash(); c != nil {
			m.logger.Error("run crashed", "trace", c.Trace)
		}
		r := m.game.Result()
		m.logger.Info("run finished", "score", r.State.Score, "level", r.State.Level, "submitted", r.Submitted)
	case screenMenu:
		return m.startChoice(m.menu.Choice())
	}
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

func (m SessionModel) startChoice(choice MenuChoice) (tea.Model, tea.Cmd) {
	switch choice {
	case ChoicePlay:
		game, err := registry.Create(m.server.GameID)
		if err != nil {
			m.logger.Error("cannot create game", "error", err)
			return m, tea.Quit
		}
		cfg := m.config
		cfg.Seed = time.Now().UnixNano()
		m.game = NewModel(game, cfg, Options{
			Telemetry: m.queue,
			Audio:     audio.Nop{},
			Logger:    m.logger,
			Name:      m.username,
		})
		m.game.done = backToMenu
		m.screen = screenGame
		return m, m.game.Init()

	case ChoiceBoard:
		m.board = NewScoreboardModel(m.store, m.server.GameID, m.title(), m.server.Achievements, m.config.ScreenW, m.config.ScreenH)
		m.board.done = backToMenu
		m.screen = screenBoard
		return m, m.board.Init()
	}
	return m, tea.Quit
}

// View renders the current view.
func (m SessionModel) View() string {
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenBoard:
		return m.board.View()
	}
	return m.menu.View()
}
