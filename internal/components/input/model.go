// Package input is the prompt box: a textarea with submit-on-enter and
// an up/down prompt history.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/williamcory/buildtui/internal/styles"
)

// Model represents the input component.
type Model struct {
	textarea textarea.Model
	width    int
	history  []string
	histIdx  int
	focused  bool
}

// New creates a new input model.
func New(width int) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe what to build..."
	ta.Focus()
	ta.CharLimit = 4096
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetKeys("shift+enter")
	ta.FocusedStyle.Placeholder = ta.FocusedStyle.Placeholder.Foreground(styles.Muted)
	ta.BlurredStyle.Placeholder = ta.BlurredStyle.Placeholder.Foreground(styles.Muted)

	return Model{
		textarea: ta,
		width:    width,
		history:  []string{},
		histIdx:  -1,
		focused:  true,
	}
}

// Init initializes the input component.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the input component.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up":
			// Navigate history when the box is empty or already browsing.
			if m.textarea.Value() == "" || m.histIdx >= 0 {
				if m.histIdx < len(m.history)-1 {
					m.histIdx++
					m.textarea.SetValue(m.history[len(m.history)-1-m.histIdx])
					m.textarea.CursorEnd()
				}
				return m, nil
			}
		case "down":
			if m.histIdx >= 0 {
				if m.histIdx > 0 {
					m.histIdx--
					m.textarea.SetValue(m.history[len(m.history)-1-m.histIdx])
					m.textarea.CursorEnd()
				} else {
					m.histIdx = -1
					m.textarea.SetValue("")
				}
				return m, nil
			}
		case "ctrl+u":
			m.textarea.SetValue("")
			m.histIdx = -1
			return m, nil
		}
	}

	if m.focused {
		m.textarea, cmd = m.textarea.Update(msg)
	}
	return m, cmd
}

// View renders the input component.
func (m Model) View() string {
	return styles.InputBorder.Width(m.width - 4).Render(m.textarea.View())
}

// Value returns the current trimmed input text.
func (m Model) Value() string {
	return strings.TrimSpace(m.textarea.Value())
}

// Submit records the current value in history and clears the box.
func (m *Model) Submit() string {
	value := m.Value()
	if value != "" {
		m.history = append(m.history, value)
	}
	m.textarea.SetValue("")
	m.histIdx = -1
	return value
}

// Clear clears the input without touching history.
func (m *Model) Clear() {
	m.textarea.SetValue("")
	m.histIdx = -1
}

// Focus focuses the textarea.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.textarea.Focus()
}

// Blur removes focus.
func (m *Model) Blur() {
	m.focused = false
	m.textarea.Blur()
}

// SetWidth updates the input width.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.textarea.SetWidth(width - 6)
}
