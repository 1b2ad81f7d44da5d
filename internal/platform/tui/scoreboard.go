package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-birds/internal/storage"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

const maxScores = 100 // Max scores to load

// AchievementInfo describes one entry of a game's achievement table.
type AchievementInfo struct {
	ID   string
	Name string
	Desc string
}

// BoardTab selects what the scoreboard shows.
type BoardTab int

const (
	TabScores BoardTab = iota
	TabAchievements
	numTabs
)

func (t BoardTab) String() string {
	if t == TabAchievements {
		return "Achievements"
	}
	return "High Scores"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.PrevTab, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	store        *storage.Store
	gameID       string
	title        string
	achievements []AchievementInfo

	tab      BoardTab
	scores   []storage.ScoreEntry
	unlocked map[string]time.Time
	loadErr  error

	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
	done     tea.Cmd
}

// NewScoreboardModel creates a scoreboard for one game. store may be nil.
func NewScoreboardModel(store *storage.Store, gameID, title string, achievements []AchievementInfo, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:        store,
		gameID:       gameID,
		title:        title,
		achievements: achievements,
		keys:         DefaultScoreboardKeyMap(),
		help:         h,
		width:        width,
		height:       height,
		done:         tea.Quit,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *ScoreboardModel) load() {
	m.scores, m.unlocked, m.loadErr = nil, map[string]time.Time{}, nil
	if m.store == nil {
		return
	}
	scores, err := m.store.TopScores(m.gameID, maxScores)
	if err != nil {
		m.loadErr = err
		return
	}
	m.scores = scores

	recs, err := m.store.UnlockedAchievements()
	if err != nil {
		m.loadErr = err
		return
	}
	for _, r := range recs {
		m.unlocked[r.ID] = r.UnlockedAt
	}
}

// createTable creates a table with the columns of the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	if m.tab == TabAchievements {
		desc := max(20, m.width-4-4-22-14-8)
		columns = []table.Column{
			{Title: "", Width: 2},
			{Title: "Achievement", Width: 22},
			{Title: "Description", Width: desc},
			{Title: "Unlocked", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Score", Width: 8},
			{Title: "Lvl", Width: 4},
			{Title: "Time", Width: 8},
			{Title: "Pts/Min", Width: 8},
			{Title: "Date", Width: 13},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) scoreRows() []table.Row {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		name := s.Name
		if name == "" {
			name = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			name,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Level),
			telemetry.FormatElapsed(time.Duration(s.ElapsedSecs) * time.Second),
			fmt.Sprintf("%.0f", s.AvgPPM),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m *ScoreboardModel) achievementRows() []table.Row {
	rows := make([]table.Row, len(m.achievements))
	for i, a := range m.achievements {
		mark, when := "", ""
		if at, ok := m.unlocked[a.ID]; ok {
			mark, when = "✓", at.Local().Format("Jan 02 15:04")
		}
		rows[i] = table.Row{mark, a.Name, a.Desc, when}
	}
	return rows
}

func (m *ScoreboardModel) updateTableRows() {
	if m.tab == TabAchievements {
		m.table.SetRows(m.achievementRows())
	} else {
		m.table.SetRows(m.scoreRows())
	}
	m.table.GotoTop()
}

func (m *ScoreboardModel) switchTab(delta int) {
	m.tab = BoardTab((int(m.tab) + delta + int(numTabs)) % int(numTabs))
	m.table = m.createTable()
	m.updateTableRows()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.done
		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText(strings.ToUpper(m.title), m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, numTabs)
	for t := TabScores; t < numTabs; t++ {
		label := t.String()
		if t == TabAchievements {
			label = fmt.Sprintf("%s %d/%d", label, m.unlockedCount(), len(m.achievements))
		}
		if t == m.tab {
			tabs[t] = activeTabStyle.Render(label)
		} else {
			tabs[t] = tabStyle.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

func (m ScoreboardModel) unlockedCount() int {
	n := 0
	for _, a := range m.achievements {
		if _, ok := m.unlocked[a.ID]; ok {
			n++
		}
	}
	return n
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the scores database:\n" + m.loadErr.Error())
	case m.tab == TabScores && len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	case m.tab == TabAchievements && len(m.achievements) == 0:
		return emptyStyle.Render("This game has no achievements.")
	}
	return m.table.View()
}

// Tab returns the visible tab.
func (m ScoreboardModel) Tab() BoardTab { return m.tab }

// centerText pads text to be centered within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(store *storage.Store, gameID, title string, achievements []AchievementInfo, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, gameID, title, achievements, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
