package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/williamcory/buildtui/internal/styles"
	"github.com/williamcory/buildtui/sdk/build"
)

// Item is anything that renders as one block of the transcript.
type Item interface {
	Render(width int) string
}

// UserItem is a prompt the user sent.
type UserItem struct {
	Text string
}

func (u UserItem) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.UserLabel.Render("You"))
	sb.WriteString("\n")
	sb.WriteString(styles.UserMessage.Width(width - 2).Render(u.Text))
	return sb.String()
}

// AgentItem is the agent's response, accumulated chunk by chunk.
type AgentItem struct {
	Text      string
	Streaming bool
}

func (a AgentItem) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.AgentLabel.Render("Agent"))
	sb.WriteString("\n")

	content := a.Text
	if content != "" {
		if rendered, err := renderMarkdown(content, width-4); err == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	if a.Streaming {
		content += styles.StreamingCursor.Render("▊")
	}
	sb.WriteString(styles.AgentMessage.Width(width - 2).Render(content))
	return sb.String()
}

// ThoughtItem is a snippet of agent reasoning.
type ThoughtItem struct {
	Text string
}

func (t ThoughtItem) Render(width int) string {
	return styles.Thought.Width(width - 4).Render("· " + t.Text)
}

// ToolItem is a tool invocation line, updated in place as updates
// arrive for the same call id.
type ToolItem struct {
	ID     string
	Name   string
	Title  string
	Status string
	Output string
}

func (t ToolItem) Render(width int) string {
	var status string
	switch t.Status {
	case "completed":
		status = styles.ToolStatus.Render("✓")
	case "failed":
		status = styles.ToolStatus.Foreground(styles.Error).Render("✗")
	default:
		status = styles.ToolStatus.Render("…")
	}

	label := t.Title
	if label == "" {
		label = t.Name
	}
	line := fmt.Sprintf("%s %s %s", status, styles.ToolName.Render(t.Name), truncate(label, 60))
	if t.Output != "" && t.Status == "completed" {
		line += styles.ToolLine.Render(" → " + truncate(t.Output, 40))
	}
	return styles.ToolLine.Render(line)
}

// FileWriteItem reports a sandbox file write.
type FileWriteItem struct {
	Path      string
	Operation string
}

func (f FileWriteItem) Render(width int) string {
	return styles.FileWrite.Render(fmt.Sprintf("✎ %s %s", f.Operation, truncate(f.Path, 60)))
}

// PlanItem renders the agent's current plan as a checklist.
type PlanItem struct {
	Text    string
	Entries []build.PlanEntry
}

func (p PlanItem) Render(width int) string {
	if len(p.Entries) == 0 {
		return styles.ToolLine.Width(width - 4).Render(p.Text)
	}

	var sb strings.Builder
	sb.WriteString(styles.SidebarTitle.Render("Plan"))
	for _, entry := range p.Entries {
		sb.WriteString("\n")
		var style = styles.PlanPending
		marker := "○"
		switch entry.Status {
		case "completed":
			style = styles.PlanDone
			marker = "●"
		case "in_progress":
			style = styles.PlanActive
			marker = "◐"
		}
		sb.WriteString(style.Render(fmt.Sprintf("  %s %s", marker, entry.Description)))
	}
	return sb.String()
}

// ArtifactItem announces a generated artifact.
type ArtifactItem struct {
	Artifact build.Artifact
}

func (a ArtifactItem) Render(width int) string {
	label := fmt.Sprintf("⚑ %s (%s)", a.Artifact.Name, a.Artifact.Type)
	if a.Artifact.PreviewURL != nil {
		label += " — " + *a.Artifact.PreviewURL
	}
	return styles.ArtifactNotice.Width(width - 4).Render(label)
}

// ErrorItem is a stream error surfaced in the transcript.
type ErrorItem struct {
	Message string
}

func (e ErrorItem) Render(width int) string {
	return styles.StatusBarError.Width(width - 2).Render("error: " + e.Message)
}

func renderMarkdown(content string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content, err
	}
	return r.Render(content)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
