// Package sidebar lists sessions: optimistic entries from the pending
// store first, then the server's list. It is the main consumer of
// build.PendingSessions.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/williamcory/buildtui/internal/styles"
	"github.com/williamcory/buildtui/sdk/build"
)

// Model represents the session sidebar.
type Model struct {
	store         *build.PendingSessionStore
	authoritative []build.Session
	merged        []build.Session
	// lastSnapshot detects unchanged pending state by identity, so
	// spurious notifications skip the re-merge.
	lastSnapshot []build.PendingSession
	selected     int
	width        int
	height       int
}

// New creates a sidebar backed by the given pending store.
func New(store *build.PendingSessionStore, width, height int) Model {
	m := Model{
		store:  store,
		width:  width,
		height: height,
	}
	m.remerge()
	return m
}

// SetSessions installs a fresh authoritative list: pending entries the
// server now knows about are evicted, then the view re-merges.
func (m *Model) SetSessions(sessions []build.Session) {
	m.authoritative = sessions
	build.ReconcilePending(m.store, sessions)
	m.lastSnapshot = nil // force re-merge even if reconcile was a no-op
	m.remerge()
}

// Refresh re-merges after a pending-store notification.
func (m *Model) Refresh() {
	m.remerge()
}

func (m *Model) remerge() {
	snap := m.store.Snapshot()
	if m.lastSnapshot != nil && sameSnapshot(snap, m.lastSnapshot) {
		return
	}
	m.lastSnapshot = snap

	selectedID := m.SelectedID()
	m.merged = build.MergeSessions(snap, m.authoritative)

	// Keep the selection on the same session across re-merges.
	m.selected = 0
	for i, s := range m.merged {
		if s.ID == selectedID {
			m.selected = i
			break
		}
	}
}

func sameSnapshot(a, b []build.PendingSession) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// Sessions returns the merged display list.
func (m Model) Sessions() []build.Session {
	return m.merged
}

// SelectedID returns the id of the highlighted session, or "".
func (m Model) SelectedID() string {
	if m.selected < 0 || m.selected >= len(m.merged) {
		return ""
	}
	return m.merged[m.selected].ID
}

// Select moves the highlight to the session with the given id.
func (m *Model) Select(id string) {
	for i, s := range m.merged {
		if s.ID == id {
			m.selected = i
			return
		}
	}
}

// MoveUp moves the highlight up.
func (m *Model) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the highlight down.
func (m *Model) MoveDown() {
	if m.selected < len(m.merged)-1 {
		m.selected++
	}
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the sidebar.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.SidebarTitle.Render("Sessions"))
	sb.WriteString("\n")

	if len(m.merged) == 0 {
		sb.WriteString(styles.SidebarPending.Render("none yet"))
	}

	maxRows := m.height - 2
	for i, session := range m.merged {
		if i >= maxRows {
			sb.WriteString(styles.SidebarItem.Render(fmt.Sprintf("… %d more", len(m.merged)-maxRows)))
			break
		}

		name := session.Name
		if name == "" {
			name = session.ID
		}
		if len(name) > m.width-4 && m.width > 7 {
			name = name[:m.width-7] + "..."
		}

		style := styles.SidebarItem
		if m.store.Has(session.ID) {
			// Not yet acknowledged by the server.
			name += " ⋯"
			style = styles.SidebarPending
		}
		if i == m.selected {
			style = styles.SidebarSelected
		}
		sb.WriteString(style.Width(m.width - 1).Render(name))
		if i < len(m.merged)-1 {
			sb.WriteString("\n")
		}
	}

	return styles.SidebarBorder.Width(m.width).Height(m.height).Render(sb.String())
}
