// Package picker provides a terminal picker for choosing a web property
// when a command needs one and none was given on the command line.
package picker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arden-labs/gsc-cli/internal/gsc"
)

// ErrCancelled is returned when the user dismisses the picker without
// choosing a property.
var ErrCancelled = errors.New("picker: selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

// Model is the bubbletea model listing the account's web properties.
type Model struct {
	properties []*gsc.WebProperty
	cursor     int
	choice     *gsc.WebProperty
	cancelled  bool
	width      int
}

// New creates a picker over the given properties.
func New(properties []*gsc.WebProperty) Model {
	return Model{properties: properties}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window sizing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.properties)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.properties) > 0 {
				m.choice = m.properties[m.cursor]
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the property list with the cursor on the current row.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select a web property"))
	b.WriteString("\n\n")

	if len(m.properties) == 0 {
		b.WriteString(mutedStyle.Render("No web properties available."))
		b.WriteString("\n")
		return b.String()
	}

	for i, wp := range m.properties {
		cursor := "  "
		line := wp.URL

		permission := mutedStyle.Render("(" + wp.RawPermission + ")")
		if !wp.Verified() {
			permission = warningStyle.Render("(" + wp.RawPermission + ", unverified)")
		}

		if i == m.cursor {
			cursor = selectedStyle.Render("> ")
			line = selectedStyle.Render(line)
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, line, permission))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/k up  ↓/j down  enter select  q cancel"))
	b.WriteString("\n")

	return b.String()
}

// Selection returns the chosen property, if any.
func (m Model) Selection() (*gsc.WebProperty, bool) {
	if m.cancelled || m.choice == nil {
		return nil, false
	}
	return m.choice, true
}

// Pick runs the picker and returns the property the user chose.
// The UI renders on stderr so stdout stays clean for piped output.
func Pick(properties []*gsc.WebProperty) (*gsc.WebProperty, error) {
	program := tea.NewProgram(New(properties), tea.WithOutput(os.Stderr))

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running property picker: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return nil, ErrCancelled
	}

	choice, ok := model.Selection()
	if !ok {
		return nil, ErrCancelled
	}
	return choice, nil
}
