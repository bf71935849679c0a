package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/tally/internal/styles"
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyCtrlD = "ctrl+d"
)

// maxTranscript caps how many transcript lines are kept.
const maxTranscript = 500

// Model is the Bubble Tea model for the interactive calculator.
type Model struct {
	session  *Session
	input    textinput.Model
	lines    []string
	width    int
	height   int
	quitting bool
}

// NewModel creates the REPL model for the given session.
func NewModel(session *Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styles.PromptStyle
	ti.Placeholder = "add 2 3"
	ti.Focus()

	return Model{
		session: session,
		input:   ti,
		lines:   []string{"Type 'help' to see available commands, 'exit' to quit."},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, keyCtrlD:
			m.quitting = true
			return m, tea.Quit

		case keyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()

			if line == "" {
				return m, nil
			}

			if line == "exit" || line == "quit" {
				m.quitting = true
				return m, tea.Quit
			}

			m.push(styles.EchoStyle.Render("> " + line))
			m.push(m.session.Dispatch(line)...)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// push appends transcript lines, styling error-marked lines and
// trimming the transcript to its cap.
func (m *Model) push(lines ...string) {
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, errorMarker); ok {
			line = styles.ErrorStyle.Render(rest)
		}
		m.lines = append(m.lines, line)
	}

	if len(m.lines) > maxTranscript {
		m.lines = m.lines[len(m.lines)-maxTranscript:]
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.BannerStyle.Render(styles.Banner))
	b.WriteString("\n\n")

	// Show only the lines that fit above the input and footer.
	visible := m.lines
	if m.height > 0 {
		budget := m.height - bannerHeight() - 3
		if budget > 0 && len(visible) > budget {
			visible = visible[len(visible)-budget:]
		}
	}

	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter: evaluate • help: commands • ctrl+c: quit"))

	return b.String()
}

func bannerHeight() int {
	return strings.Count(styles.Banner, "\n") + 2
}

// Run starts the REPL and blocks until the user exits.
func Run(session *Session) error {
	_, err := tea.NewProgram(NewModel(session), tea.WithAltScreen()).Run()
	return err
}
