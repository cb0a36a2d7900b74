// Package tui is a terminal keypad for a single calculator session.
package tui

import (
	"strings"

	"go-chi-keypad/internal/calculator"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Align(lipgloss.Right)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const helpText = "0-9 . digits  + - * / operators  % percent  n sign\n= or enter evaluate  c or esc clear  q quit"

// Model drives one calculator.Session from key presses.
type Model struct {
	session  *calculator.Session
	width    int
	quitting bool
}

// New returns a model for session whose display is width columns wide.
func New(session *calculator.Session, width int) Model {
	if width < 8 {
		width = 8
	}
	return Model{session: session, width: width}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}

		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}

		if k, ok := keyFor(msg); ok {
			// Failures are already on the display.
			_ = m.session.Press(k)
		}

	case tea.WindowSizeMsg:
		if msg.Width > 4 && msg.Width-4 < m.width {
			m.width = msg.Width - 4
		}
	}

	return m, nil
}

// keyFor maps a terminal key to a keypad key. Printable keys go through
// calculator.ParseKey so the terminal accepts the same glyphs as the API.
func keyFor(msg tea.KeyMsg) (calculator.Key, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return calculator.EqualsKey, true
	case tea.KeyEsc, tea.KeyDelete:
		return calculator.ClearKey, true
	}

	switch s := msg.String(); s {
	case "n", "~":
		return calculator.ToggleSignKey, true
	case "x":
		return calculator.OperatorKey(calculator.OpMultiply), true
	case ",":
		return calculator.DecimalKey, true
	default:
		k, err := calculator.ParseKey(s)
		return k, err == nil
	}
}

// Display is the text currently on the calculator display.
func (m Model) Display() string {
	return m.session.Display()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	text := m.session.Display()
	if text == "" {
		text = "0"
	}
	// Keep the tail of long expressions; that is where typing happens.
	if r := []rune(text); len(r) > m.width {
		text = "…" + string(r[len(r)-m.width+1:])
	}

	style := displayStyle.Width(m.width + 2)
	if m.session.State() == calculator.ErrorDisplayed {
		text = errorStyle.Render(text)
	}

	var b strings.Builder
	b.WriteString(style.Render(text))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}
