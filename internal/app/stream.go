package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/williamcory/buildtui/internal/clipboard"
	"github.com/williamcory/buildtui/internal/messages"
	"github.com/williamcory/buildtui/sdk/build"
)

// startStreamCmd runs one build task on its own goroutine, pushing
// packets into the program tagged with the stream's sequence number.
// The terminal message comes back through the command's return value.
func startStreamCmd(ctx context.Context, client *build.Client, shared *SharedState, seq int, sessionID, content string) tea.Cmd {
	return func() tea.Msg {
		p := shared.GetProgram()
		if p == nil {
			return messages.StreamErrMsg{Seq: seq, Err: context.Canceled}
		}

		p.Send(messages.StreamStartMsg{Seq: seq})

		err := client.ExecuteTask(ctx, sessionID, &build.MessageRequest{Content: content}, build.StreamHandler{
			OnEvent: func(e build.Event) {
				p.Send(messages.PacketMsg{Seq: seq, Packet: build.ParsePacket(e)})
			},
		})
		if err != nil {
			return messages.StreamErrMsg{Seq: seq, Err: err}
		}
		return messages.StreamDoneMsg{Seq: seq}
	}
}

func loadSessionsCmd(client *build.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessions, err := client.ListSessions(ctx)
		return messages.SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// newSessionCmd implements the optimistic create: the pending entry is
// added to the store synchronously (the sidebar shows it immediately),
// then the server create runs in the background with the same id.
func newSessionCmd(client *build.Client) tea.Cmd {
	pending := build.PendingSession{
		ID:        uuid.NewString(),
		Name:      "New build",
		AgentID:   1,
		CreatedAt: time.Now().UTC(),
	}
	build.PendingSessions.Add(pending)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		session, err := client.CreateSession(ctx, &build.CreateSessionRequest{
			ID:   build.String(pending.ID),
			Name: build.String(pending.Name),
		})
		return messages.SessionCreatedMsg{Session: session, PendingID: pending.ID, Err: err}
	}
}

func deleteSessionCmd(client *build.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := client.DeleteSession(ctx, id)
		return messages.SessionDeletedMsg{ID: id, Err: err}
	}
}

func loadHistoryCmd(client *build.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msgs, err := client.ListMessages(ctx, sessionID)
		return messages.HistoryLoadedMsg{SessionID: sessionID, Messages: msgs, Err: err}
	}
}

func webappInfoCmd(client *build.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		info, err := client.GetWebappInfo(ctx, sessionID)
		return messages.WebappInfoMsg{Info: info, Err: err}
	}
}

func copyCmd(label, text string) tea.Cmd {
	return func() tea.Msg {
		return messages.CopiedMsg{Label: label, Err: clipboard.CopyText(text)}
	}
}
