// Package app is the top-level bubbletea model wiring the chat
// transcript, the prompt box and the session sidebar to the SDK.
package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/williamcory/buildtui/internal/components/chat"
	"github.com/williamcory/buildtui/internal/components/input"
	"github.com/williamcory/buildtui/internal/components/sidebar"
	"github.com/williamcory/buildtui/internal/config"
	"github.com/williamcory/buildtui/sdk/build"
)

// State represents the application state.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateError
)

// Focus is which pane receives keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
)

// SharedState holds state shared between model copies; stream
// goroutines need the program reference to push messages in.
type SharedState struct {
	mu      sync.Mutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (s *SharedState) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// GetProgram gets the program reference.
func (s *SharedState) GetProgram() *tea.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Model is the main application model.
type Model struct {
	chat    chat.Model
	input   input.Model
	sidebar sidebar.Model
	client  *build.Client
	prefs   *config.Preferences
	shared  *SharedState

	state     State
	focus     Focus
	sessionID string
	webappURL *string

	// seq identifies the current stream; messages from older streams
	// are dropped in Update.
	seq    int
	cancel context.CancelFunc

	width  int
	height int
	ready  bool
	err    error
	notice string
}

// New creates the application model.
func New(client *build.Client, prefs *config.Preferences) Model {
	if prefs == nil {
		prefs = &config.Preferences{}
	}
	return Model{
		chat:    chat.New(80, 20),
		input:   input.New(80),
		sidebar: sidebar.New(build.PendingSessions, 28, 20),
		client:  client,
		prefs:   prefs,
		shared:  &SharedState{},
		state:   StateIdle,
		focus:   FocusInput,
	}
}

// SetProgram hands the model the running program so stream goroutines
// can send messages. Call before Run.
func (m *Model) SetProgram(p *tea.Program) {
	m.shared.SetProgram(p)
}

// Init initializes the application.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Init(),
		m.chat.Init(),
		loadSessionsCmd(m.client),
	)
}
