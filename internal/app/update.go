package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/williamcory/buildtui/internal/messages"
	"github.com/williamcory/buildtui/sdk/build"
)

const sidebarWidth = 28

// Update handles all application messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}

	case messages.StreamStartMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.state = StateStreaming
		m.chat.StartRun()
		return m, nil

	case messages.PacketMsg:
		// Packets from a canceled stream arrive late; drop them.
		if msg.Seq != m.seq {
			return m, nil
		}
		m.chat.ApplyPacket(msg.Packet)
		return m, nil

	case messages.StreamDoneMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.state = StateIdle
		m.cancel = nil
		m.chat.EndRun()
		if !m.prefs.SeenOnboarding {
			m.prefs.SeenOnboarding = true
			_ = m.prefs.Save()
		}
		return m, tea.Batch(
			m.input.Focus(),
			loadSessionsCmd(m.client),
			webappInfoCmd(m.client, m.sessionID),
		)

	case messages.StreamErrMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.state = StateError
		m.cancel = nil
		m.err = msg.Err
		m.chat.EndRun()
		m.chat.AddError(msg.Err.Error())
		return m, m.input.Focus()

	case messages.SessionsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.state = StateError
			return m, nil
		}
		m.sidebar.SetSessions(msg.Sessions)
		if m.sessionID != "" {
			m.sidebar.Select(m.sessionID)
		}
		return m, nil

	case messages.SessionCreatedMsg:
		if msg.Err != nil {
			// The create failed; retract the optimistic entry.
			if msg.PendingID != "" {
				build.PendingSessions.Remove(msg.PendingID)
			}
			m.err = msg.Err
			m.state = StateError
			return m, nil
		}
		m.sessionID = msg.Session.ID
		m.webappURL = nil
		m.chat.Clear()
		m.prefs.RememberSession(msg.Session.ID, msg.Session.Name)
		_ = m.prefs.Save()
		// The authoritative refresh evicts the pending entry.
		return m, loadSessionsCmd(m.client)

	case messages.SessionDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.state = StateError
			return m, nil
		}
		if msg.ID == m.sessionID {
			m.sessionID = ""
			m.webappURL = nil
			m.chat.Clear()
		}
		return m, loadSessionsCmd(m.client)

	case messages.HistoryLoadedMsg:
		if msg.Err == nil && msg.SessionID == m.sessionID {
			m.chat.LoadHistory(msg.Messages)
		}
		return m, nil

	case messages.WebappInfoMsg:
		if msg.Err == nil && msg.Info != nil && msg.Info.HasWebapp {
			m.webappURL = msg.Info.WebappURL
		}
		return m, nil

	case messages.PendingChangedMsg:
		m.sidebar.Refresh()
		return m, nil

	case messages.CopiedMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("copy failed: %v", msg.Err)
		} else {
			m.notice = msg.Label + " copied"
		}
		return m, nil
	}

	// Route remaining messages to the focused components.
	if m.state == StateIdle && m.focus == FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		if m.state == StateStreaming && m.cancel != nil {
			return m.abortStream()
		}
		return m, tea.Quit, true

	case "esc":
		if m.state == StateStreaming && m.cancel != nil {
			return m.abortStream()
		}
		if m.focus == FocusSidebar {
			m.focus = FocusInput
			return m, m.input.Focus(), true
		}
		return m, tea.Quit, true

	case "tab":
		if m.focus == FocusInput {
			m.focus = FocusSidebar
			m.input.Blur()
		} else {
			m.focus = FocusInput
			return m, m.input.Focus(), true
		}
		return m, nil, true

	case "enter":
		if m.focus == FocusSidebar {
			return m.openSelectedSession()
		}
		if m.state == StateIdle && m.input.Value() != "" {
			return m.sendPrompt()
		}
		return m, nil, true

	case "up", "k":
		if m.focus == FocusSidebar {
			m.sidebar.MoveUp()
			return m, nil, true
		}

	case "down", "j":
		if m.focus == FocusSidebar {
			m.sidebar.MoveDown()
			return m, nil, true
		}

	case "ctrl+n":
		if m.state != StateStreaming {
			return m, newSessionCmd(m.client), true
		}
		return m, nil, true

	case "ctrl+d":
		if m.focus == FocusSidebar {
			if id := m.sidebar.SelectedID(); id != "" {
				return m, deleteSessionCmd(m.client, id), true
			}
		}

	case "ctrl+y":
		if m.webappURL != nil {
			return m, copyCmd("preview URL", *m.webappURL), true
		}
		m.notice = "no preview URL yet"
		return m, nil, true

	case "ctrl+l":
		m.chat.Clear()
		return m, nil, true
	}

	return m, nil, false
}

// sendPrompt starts a new stream for the current session, creating a
// session first if none is active.
func (m Model) sendPrompt() (tea.Model, tea.Cmd, bool) {
	if m.sessionID == "" {
		// No active session: create one optimistically, keep the
		// prompt in the box and let the user resend once it exists.
		return m, newSessionCmd(m.client), true
	}

	content := m.input.Submit()
	m.input.Blur()
	m.chat.AddUserMessage(content)

	m.seq++
	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())

	return m, startStreamCmd(ctx, m.client, m.shared, m.seq, m.sessionID, content), true
}

// abortStream cancels the in-flight stream. The bumped sequence number
// makes any late messages from the old stream no-ops.
func (m Model) abortStream() (tea.Model, tea.Cmd, bool) {
	m.cancel()
	m.cancel = nil
	m.seq++
	m.state = StateIdle
	m.chat.EndRun()
	return m, m.input.Focus(), true
}

func (m Model) openSelectedSession() (tea.Model, tea.Cmd, bool) {
	id := m.sidebar.SelectedID()
	if id == "" || id == m.sessionID {
		m.focus = FocusInput
		return m, m.input.Focus(), true
	}

	m.sessionID = id
	m.webappURL = nil
	m.chat.Clear()
	m.focus = FocusInput
	m.prefs.RememberSession(id, "")
	_ = m.prefs.Save()

	return m, tea.Batch(
		m.input.Focus(),
		loadHistoryCmd(m.client, id),
		webappInfoCmd(m.client, id),
	), true
}

func (m *Model) layout() {
	chatWidth := m.width - sidebarWidth
	if chatWidth < 20 {
		chatWidth = m.width
	}

	// Header (1), input (5), status bar (1), padding (2).
	chatHeight := m.height - 9
	if chatHeight < 5 {
		chatHeight = 5
	}

	m.chat.SetSize(chatWidth, chatHeight)
	m.input.SetWidth(m.width)
	m.sidebar.SetSize(sidebarWidth, chatHeight)
}
