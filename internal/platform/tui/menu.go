package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuChoice is what the title menu resolved to.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceBoard
	ChoiceQuit
)

type menuItem struct {
	label  string
	choice MenuChoice
}

var menuItems = []menuItem{
	{"Play", ChoicePlay},
	{"Scores & Achievements", ChoiceBoard},
	{"Quit", ChoiceQuit},
}

type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var defaultMenuKeys = menuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "w", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "s", "j")),
	Select: key.NewBinding(key.WithKeys("enter", " ")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
}

// MenuModel is the title screen shown to SSH players between runs.
type MenuModel struct {
	title  string
	best   int
	cursor int
	width  int
	height int
	choice MenuChoice
	done   tea.Cmd
}

// NewMenuModel creates a title menu. best is the high score shown under the
// title, 0 hides it.
func NewMenuModel(title string, best, width, height int) MenuModel {
	return MenuModel{title: title, best: best, width: width, height: height, done: tea.Quit}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultMenuKeys.Quit):
			m.choice = ChoiceQuit
			return m, m.done
		case key.Matches(msg, defaultMenuKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, defaultMenuKeys.Down):
			if m.cursor < len(menuItems)-1 {
				m.cursor++
			}
		case key.Matches(msg, defaultMenuKeys.Select):
			m.choice = menuItems[m.cursor].choice
			return m, m.done
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// Choice returns the selected entry, or ChoiceNone while the menu is open.
func (m MenuModel) Choice() MenuChoice { return m.choice }

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText(spaced(m.title), m.width)))
	b.WriteString("\n\n")
	if m.best > 0 {
		b.WriteString(centerText("Best: "+strconv.Itoa(m.best), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range menuItems {
		line := "  " + item.label
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + item.label)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(menuHintStyle.Render(centerText("Up/Down: Navigate  |  Enter: Select  |  Q: Quit", m.width)))
	b.WriteString("\n")
	return b.String()
}

// spaced renders "Birds" as "  B I R D S  ".
func spaced(s string) string {
	return "  " + strings.Join(strings.Split(strings.ToUpper(s), ""), " ") + "  "
}
