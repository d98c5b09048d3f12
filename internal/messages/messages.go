// Package messages holds the bubbletea messages exchanged between the
// stream goroutines, the REST command helpers and the app model.
package messages

import "github.com/williamcory/buildtui/sdk/build"

// Stream messages carry the sequence number of the stream that
// produced them. The app drops messages whose Seq is not the current
// one, so frames from a canceled stream can never corrupt a newer run.

type StreamStartMsg struct {
	Seq int
}

type PacketMsg struct {
	Seq    int
	Packet build.Packet
}

type StreamDoneMsg struct {
	Seq int
}

type StreamErrMsg struct {
	Seq int
	Err error
}

// REST results

type SessionsLoadedMsg struct {
	Sessions []build.Session
	Err      error
}

type SessionCreatedMsg struct {
	Session *build.Session
	// PendingID is the optimistic entry this create belongs to.
	PendingID string
	Err       error
}

type SessionDeletedMsg struct {
	ID  string
	Err error
}

type HistoryLoadedMsg struct {
	SessionID string
	Messages  []build.MessageResponse
	Err       error
}

type WebappInfoMsg struct {
	Info *build.WebappInfo
	Err  error
}

// PendingChangedMsg is posted whenever the pending-session store
// notifies, so the sidebar re-merges its list.
type PendingChangedMsg struct{}

// CopiedMsg reports a clipboard copy attempt.
type CopiedMsg struct {
	Label string
	Err   error
}
