package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/williamcory/buildtui/internal/components/chat"
	"github.com/williamcory/buildtui/internal/styles"
)

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var sections []string

	header := styles.Header.Render("buildtui")
	if m.webappURL != nil {
		header += styles.StatusBar.Render("preview: " + *m.webappURL)
	}
	sections = append(sections, header)

	chatView := m.chat.View()
	if m.chat.IsEmpty() && m.state == StateIdle {
		welcome := chat.WelcomeText
		if m.prefs.SeenOnboarding {
			welcome = "Describe what you want built and press Enter."
		}
		chatView = lipgloss.NewStyle().
			Foreground(styles.Muted).
			Width(m.width - sidebarWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render(welcome)
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, chatView, m.sidebar.View()))

	if m.state == StateStreaming {
		disabled := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Italic(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Muted).
			Padding(0, 1).
			Width(m.width - 2).
			Render("Building... (Esc to cancel)")
		sections = append(sections, disabled)
	} else {
		sections = append(sections, m.input.View())
	}

	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar() string {
	var status string
	var statusStyle lipgloss.Style

	switch m.state {
	case StateIdle:
		status = "Ready"
		statusStyle = styles.StatusBar
	case StateStreaming:
		status = "Building..."
		statusStyle = styles.StatusBarStreaming
	case StateError:
		status = fmt.Sprintf("Error: %v", m.err)
		statusStyle = styles.StatusBarError
	}
	if m.notice != "" {
		status += " · " + m.notice
	}

	left := statusStyle.Render(status)
	help := styles.StatusBar.Render("Enter: send • Tab: sessions • Ctrl+N: new • Ctrl+Y: copy preview • Ctrl+C: quit")

	spacerWidth := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", spacerWidth), help)
}
