// Package chat renders the build transcript: user prompts, streamed
// agent output, tool calls, file writes, the plan checklist and
// artifact notices.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/williamcory/buildtui/sdk/build"
)

// WelcomeText is shown before the first message.
const WelcomeText = "Describe what you want built and press Enter.\nThe agent plans, writes files in a sandbox and serves a live preview."

// Model represents the chat component.
type Model struct {
	viewport viewport.Model
	items    []Item
	// toolIdx maps tool-call ids to their item index so updates mutate
	// the existing line instead of appending a new one.
	toolIdx map[string]int
	// planIdx is the index of the current plan item, replaced in place
	// on every plan update.
	planIdx      int
	streamingIdx int
	width        int
	height       int
}

// New creates a new chat model.
func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.SetContent("")

	return Model{
		viewport:     vp,
		toolIdx:      make(map[string]int),
		planIdx:      -1,
		streamingIdx: -1,
		width:        width,
		height:       height,
	}
}

// Init initializes the chat component.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the chat component.
func (m Model) View() string {
	return m.viewport.View()
}

// AddUserMessage appends a user prompt to the transcript.
func (m *Model) AddUserMessage(content string) {
	m.items = append(m.items, UserItem{Text: content})
	m.refresh()
}

// StartRun resets per-run state ahead of a new stream. Each run gets
// its own plan panel and tool lines.
func (m *Model) StartRun() {
	m.toolIdx = make(map[string]int)
	m.planIdx = -1
	m.streamingIdx = -1
}

// ApplyPacket folds one stream packet into the transcript.
func (m *Model) ApplyPacket(p build.Packet) {
	switch p := p.(type) {
	case build.MessageChunkPacket:
		m.appendAgentText(p.Text)

	case build.ThoughtChunkPacket:
		if p.Text != "" {
			m.items = append(m.items, ThoughtItem{Text: p.Text})
		}

	case build.ToolCallPacket:
		m.items = append(m.items, ToolItem{
			ID:    p.ID,
			Name:  p.Name,
			Title: p.Title,
		})
		m.toolIdx[p.ID] = len(m.items) - 1

	case build.ToolCallUpdatePacket:
		if i, ok := m.toolIdx[p.ID]; ok {
			if tool, ok := m.items[i].(ToolItem); ok {
				tool.Status = p.Status
				tool.Output = p.Output
				m.items[i] = tool
			}
		}

	case build.FileWritePacket:
		m.items = append(m.items, FileWriteItem{Path: p.Path, Operation: p.Operation})

	case build.PlanPacket:
		item := PlanItem{Text: p.Text, Entries: p.Entries}
		if m.planIdx >= 0 {
			m.items[m.planIdx] = item
		} else {
			m.items = append(m.items, item)
			m.planIdx = len(m.items) - 1
		}

	case build.ArtifactPacket:
		m.items = append(m.items, ArtifactItem{Artifact: p.Artifact})

	case build.ErrorPacket:
		m.items = append(m.items, ErrorItem{Message: p.Message})

	case build.PromptResponsePacket:
		m.EndRun()

	// Mode changes, status frames and unknown packets carry nothing
	// worth a transcript line.
	case build.ModeUpdatePacket, build.StatusPacket, build.OutputPacket:
	}

	m.refresh()
}

// appendAgentText grows the current streaming agent item, creating it
// on the first chunk.
func (m *Model) appendAgentText(text string) {
	if m.streamingIdx < 0 {
		m.items = append(m.items, AgentItem{Streaming: true})
		m.streamingIdx = len(m.items) - 1
	}
	if agent, ok := m.items[m.streamingIdx].(AgentItem); ok {
		agent.Text += text
		m.items[m.streamingIdx] = agent
	}
}

// EndRun finalizes the streaming agent item, if any.
func (m *Model) EndRun() {
	if m.streamingIdx >= 0 {
		if agent, ok := m.items[m.streamingIdx].(AgentItem); ok {
			agent.Streaming = false
			m.items[m.streamingIdx] = agent
		}
		m.streamingIdx = -1
	}
	m.refresh()
}

// AddError surfaces a transport error in the transcript.
func (m *Model) AddError(message string) {
	m.items = append(m.items, ErrorItem{Message: message})
	m.refresh()
}

// LoadHistory replaces the transcript with stored session messages.
func (m *Model) LoadHistory(msgs []build.MessageResponse) {
	m.Clear()
	for _, msg := range msgs {
		if msg.Type == "user" {
			m.items = append(m.items, UserItem{Text: msg.Content})
		} else {
			m.items = append(m.items, AgentItem{Text: msg.Content})
		}
	}
	m.refresh()
}

// Clear resets the transcript.
func (m *Model) Clear() {
	m.items = nil
	m.toolIdx = make(map[string]int)
	m.planIdx = -1
	m.streamingIdx = -1
	m.viewport.SetContent("")
}

// IsEmpty reports whether there is nothing to show.
func (m Model) IsEmpty() bool {
	return len(m.items) == 0
}

// SetSize updates the chat dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *Model) refresh() {
	var content strings.Builder
	for i, item := range m.items {
		content.WriteString(item.Render(m.width))
		if i < len(m.items)-1 {
			content.WriteString("\n")
		}
	}
	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}
