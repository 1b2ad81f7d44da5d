package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-birds/internal/audio"
	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/registry"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

// maxNameLen caps leaderboard names.
const maxNameLen = 20

// footerRows is the space below the game screen kept for the help line.
const footerRows = 1

// Reporter is the telemetry surface the model needs. *telemetry.Queue
// implements it.
type Reporter interface {
	core.EventSink
	SubmitScore(s telemetry.Score) error
	ReportCrash(c telemetry.Crash) error
	SyncAchievements(ids []string) error
}

type nopReporter struct{ core.NopSink }

func (nopReporter) SubmitScore(telemetry.Score) error { return nil }
func (nopReporter) ReportCrash(telemetry.Crash) error { return nil }
func (nopReporter) SyncAchievements([]string) error { return nil }

// runStats is implemented by games that track play time and swaps.
type runStats interface {
	Elapsed() time.Duration
	Swaps() int
}

// resizer is implemented by games that can adapt to a new window size
// without restarting.
type resizer interface {
	Resize(w, h int)
}

// Options wires the model to its collaborators. Nil fields get no-ops.
type Options struct {
	Telemetry Reporter
	Audio     audio.Player
	Logger    *log.Logger
	// Name prefills the leaderboard prompt.
	Name string
}

// CrashError is returned by Run when the simulation panicked.
type CrashError struct {
	Trace string
}

func (e *CrashError) Error() string {
	first, _, _ := strings.Cut(e.Trace, "\n")
	return "simulation crashed: " + first
}

// Result is what a finished session produced.
type Result struct {
	State     core.GameState
	Elapsed   time.Duration
	Score     telemetry.Score
	Submitted bool
}

type phase int

const (
	phasePlaying phase = iota
	phaseNaming
	phaseDone
)

// Model is the Bubble Tea model for one run of a game.
type Model struct {
	game   registry.Game
	screen *core.Screen
	config core.RuntimeConfig
	opts   Options

	input core.InputFrame
	state core.GameState
	keys  KeyMap
	help  help.Model
	name  textinput.Model

	phase    phase
	result   Result
	crash    *CrashError
	quitting bool
	run      int64
	// done ends the model: tea.Quit standalone, a return to the menu over SSH.
	done tea.Cmd
}

// NewModel creates a model and starts a fresh run of game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = nopReporter{}
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	if o, ok := game.(registry.Observable); ok {
		o.SetEventSink(opts.Telemetry)
	}
	gameCfg := cfg
	gameCfg.ScreenH = max(0, cfg.ScreenH-footerRows)
	game.Reset(gameCfg)

	ti := textinput.New()
	ti.Placeholder = "leave blank to skip"
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen + 1
	ti.SetValue(truncateName(opts.Name))

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, gameCfg.ScreenH),
		config: cfg,
		opts:   opts,
		input:  core.NewInputFrame(),
		state:  game.State(),
		keys:   DefaultKeyMap(),
		help:   h,
		name:   ti,
		run:    runSeq.Add(1),
		done:   tea.Quit,
	}
}

func truncateName(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxNameLen {
		s = string(r[:maxNameLen])
	}
	return s
}

// Init starts the music and the tick loop.
func (m Model) Init() tea.Cmd {
	m.opts.Audio.Start()
	return tickCmd(m.run, 0)
}

// Update handles messages. A panic in the game is recovered once, reported
// and turned into a clean quit so the terminal is restored.
func (m Model) Update(msg tea.Msg) (out tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.crash = m.reportCrash(r)
			m.quitting = true
			out, cmd = m, m.done
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.phase == phasePlaying {
			return m.handleKey(msg)
		}
		return m.handleNameKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.run != m.run {
			return m, nil
		}
		return m.handleTick()
	}

	if m.phase == phaseNaming {
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.result = Result{State: m.state, Elapsed: m.elapsed()}
		return m, m.done
	case key.Matches(msg, m.keys.Music):
		on := m.opts.Audio.Toggle()
		m.opts.Logger.Debug("music toggled", "on", on)
		return m, nil
	}
	m.keys.Apply(msg, &m.input)
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, m.done
	case tea.KeyEnter:
		return m.finish(truncateName(m.name.Value()))
	case tea.KeyEsc:
		return m.finish("")
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	h := max(0, msg.Height-footerRows)
	m.screen.Resize(msg.Width, h)
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, h)
	} else if !m.state.GameOver {
		cfg := m.config
		cfg.ScreenH = h
		m.game.Reset(cfg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.phase != phasePlaying {
		return m, nil
	}

	res := m.game.Step(m.input)
	m.input.Clear()
	m.state = res.State

	if m.state.GameOver {
		m.phase = phaseNaming
		m.result = Result{State: m.state, Elapsed: m.elapsed()}
		m.opts.Audio.Stop()
		return m, m.name.Focus()
	}
	return m, tickCmd(m.run, res.NextTick)
}

func (m Model) elapsed() time.Duration {
	if s, ok := m.game.(runStats); ok {
		return s.Elapsed()
	}
	return 0
}

func (m Model) swaps() int {
	if s, ok := m.game.(runStats); ok {
		return s.Swaps()
	}
	return 0
}

// finish submits the run under name, or only syncs achievements when name
// is blank, and quits.
func (m Model) finish(name string) (tea.Model, tea.Cmd) {
	logger := m.opts.Logger
	st := m.result.State

	if name != "" {
		score := telemetry.NewScore(name, st.Score, st.Level, m.swaps(), m.result.Elapsed)
		if err := m.opts.Telemetry.SubmitScore(score); err != nil {
			logger.Warn("could not submit score", "error", err)
		} else {
			m.result.Score = score
			m.result.Submitted = true
		}
	}
	if len(st.Unlocked) > 0 {
		if err := m.opts.Telemetry.SyncAchievements(st.Unlocked); err != nil {
			logger.Warn("could not sync achievements", "error", err)
		}
	}

	m.phase = phaseDone
	m.name.Blur()
	return m, m.done
}

func (m Model) reportCrash(r any) *CrashError {
	trace := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	m.opts.Logger.Error("simulation crashed", "panic", r)

	var snap []byte
	if s, ok := m.game.(registry.Snapshotter); ok {
		snap = safeSnapshot(s, m.opts.Logger)
	}
	crash := telemetry.Crash{Trace: trace, Snapshot: snap, Version: telemetry.Version}
	if err := m.opts.Telemetry.ReportCrash(crash); err != nil {
		m.opts.Logger.Warn("could not queue crash report", "error", err)
	}
	return &CrashError{Trace: trace}
}

// safeSnapshot encodes the world, giving up if the world is too broken to
// encode.
func safeSnapshot(s registry.Snapshotter, logger *log.Logger) (b []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("snapshot failed", "panic", r)
			b = nil
		}
	}()
	b, err := s.SnapshotBytes()
	if err != nil {
		logger.Warn("snapshot failed", "error", err)
		return nil
	}
	return b
}

// Result reports what the session produced.
func (m Model) Result() Result { return m.result }

// Crash returns the recovered panic, if any.
func (m Model) Crash() *CrashError { return m.crash }

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.phase != phasePlaying {
		return m.summaryView()
	}

	m.game.Render(m.screen)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	summaryBox   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("1")).Padding(1, 3)
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	summaryHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func (m Model) summaryView() string {
	st := m.result.State
	elapsed := m.result.Elapsed

	row := func(label, value string) string {
		return summaryLabel.Render(label) + value
	}
	lines := []string{
		summaryTitle.Render("GAME OVER"),
		"",
		row("Final Score", fmt.Sprintf("%d", st.Score)),
		row("Level Reached", fmt.Sprintf("%d", st.Level)),
		row("Time Played", fmt.Sprintf("%s (%d s)", telemetry.FormatElapsed(elapsed), int(elapsed.Seconds()))),
		row("Avg Points/Min", fmt.Sprintf("%.1f", telemetry.AvgPPM(st.Score, elapsed))),
		row("Achievements", fmt.Sprintf("%d", len(st.Unlocked))),
		"",
	}
	if m.phase == phaseNaming {
		lines = append(lines,
			"Enter name for leaderboard:",
			m.name.View(),
			"",
			summaryHint.Render("enter save • esc skip"),
		)
	}

	box := summaryBox.Render(strings.Join(lines, "\n"))
	if m.config.ScreenW <= 0 || m.config.ScreenH <= 0 {
		return box
	}
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, box)
}

// Run plays one session on the local terminal.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (Result, error) {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return Result{}, nil
	}
	if m.crash != nil {
		return m.result, m.crash
	}
	return m.result, nil
}
