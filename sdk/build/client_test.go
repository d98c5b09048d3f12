package build_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/williamcory/buildtui/internal/mock"
	"github.com/williamcory/buildtui/sdk/build"
)

func newTestClient(t *testing.T) *build.Client {
	t.Helper()
	srv := mock.NewServer(0)
	srv.Delay = 0
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return build.NewClient(ts.URL)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t)

	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status ok, got %q", health.Status)
	}
}

func TestSessionLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{
		Name: build.String("My build"),
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected server-generated session id")
	}
	if session.Name != "My build" {
		t.Errorf("expected name My build, got %q", session.Name)
	}
	if session.SharedStatus != build.SharedStatusPrivate {
		t.Errorf("expected private session, got %q", session.SharedStatus)
	}

	got, err := client.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("expected id %s, got %s", session.ID, got.ID)
	}

	renamed, err := client.UpdateSessionName(ctx, session.ID, "Renamed")
	if err != nil {
		t.Fatalf("UpdateSessionName failed: %v", err)
	}
	if renamed.Name != "Renamed" {
		t.Errorf("expected Renamed, got %q", renamed.Name)
	}

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Errorf("unexpected session list: %+v", sessions)
	}

	if err := client.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := client.GetSession(ctx, session.ID); err == nil {
		t.Error("expected error getting deleted session")
	} else if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("expected HTTP 404 error, got %v", err)
	}
}

func TestCreateSessionWithClientID(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	// The optimistic-UI flow supplies its own id so the local
	// placeholder and the server record line up.
	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{
		ID: build.String("client-chosen-id"),
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID != "client-chosen-id" {
		t.Errorf("expected client-chosen id, got %q", session.ID)
	}

	_, err = client.CreateSession(ctx, &build.CreateSessionRequest{
		ID: build.String("client-chosen-id"),
	})
	if err == nil || !strings.Contains(err.Error(), "HTTP 409") {
		t.Errorf("expected HTTP 409 for duplicate id, got %v", err)
	}
}

func TestExecuteTaskStream(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var events []build.Event
	var doneCalls, errorCalls int
	err = client.ExecuteTask(ctx, session.ID, &build.MessageRequest{Content: "Build a dashboard"}, build.StreamHandler{
		OnEvent: func(e build.Event) { events = append(events, e) },
		OnError: func(error) { errorCalls++ },
		OnDone:  func() { doneCalls++ },
	})
	if err != nil {
		t.Fatalf("ExecuteTask failed: %v", err)
	}
	if doneCalls != 1 || errorCalls != 0 {
		t.Errorf("expected exactly one OnDone and no OnError, got done=%d error=%d", doneCalls, errorCalls)
	}
	if len(events) == 0 {
		t.Fatal("expected events from stream")
	}

	if events[0].Type != "status" {
		t.Errorf("expected first event status, got %q", events[0].Type)
	}
	if last := events[len(events)-1]; last.Type != "prompt_response" {
		t.Errorf("expected last event prompt_response, got %q", last.Type)
	}

	// Reassemble the message text through the typed union.
	var text string
	var sawPlan, sawToolCall, sawArtifact bool
	for _, e := range events {
		switch p := build.ParsePacket(e).(type) {
		case build.MessageChunkPacket:
			text += p.Text
		case build.PlanPacket:
			sawPlan = len(p.Entries) > 0
		case build.ToolCallPacket:
			sawToolCall = p.Name == "write_file"
		case build.ArtifactPacket:
			sawArtifact = p.Artifact.Type == build.ArtifactTypeWebApp
		}
	}
	if !strings.Contains(text, "dashboard") {
		t.Errorf("unexpected reassembled text: %q", text)
	}
	if !sawPlan || !sawToolCall || !sawArtifact {
		t.Errorf("missing packets: plan=%v toolCall=%v artifact=%v", sawPlan, sawToolCall, sawArtifact)
	}

	// The run is stored in message history.
	msgs, err := client.ListMessages(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Type != "user" || msgs[1].Type != "agent" {
		t.Errorf("unexpected message history: %+v", msgs)
	}
}

func TestExecuteTaskHTTPError(t *testing.T) {
	client := newTestClient(t)

	var errorCalls, doneCalls int
	var reported error
	err := client.ExecuteTask(context.Background(), "missing", &build.MessageRequest{Content: "hi"}, build.StreamHandler{
		OnError: func(err error) { errorCalls++; reported = err },
		OnDone:  func() { doneCalls++ },
	})
	if err == nil {
		t.Fatal("expected error for missing session")
	}
	if errorCalls != 1 || doneCalls != 0 {
		t.Errorf("expected exactly one OnError and no OnDone, got error=%d done=%d", errorCalls, doneCalls)
	}
	if !strings.Contains(reported.Error(), "HTTP 404") {
		t.Errorf("expected HTTP 404, got %v", reported)
	}
}

func TestExecuteTaskAbort(t *testing.T) {
	firstEvent := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "event: status\ndata: {\"status\":\"starting\"}\n\n")
		flusher.Flush()
		close(firstEvent)
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))
	defer ts.Close()

	client := build.NewClient(ts.URL)
	ctx, cancel := context.WithCancel(context.Background())

	var errorCalls, doneCalls int
	go func() {
		<-firstEvent
		cancel()
	}()

	err := client.ExecuteTask(ctx, "s1", &build.MessageRequest{Content: "hi"}, build.StreamHandler{
		OnError: func(error) { errorCalls++ },
		OnDone:  func() { doneCalls++ },
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// An abort is the caller's own doing: no terminal callback fires.
	if errorCalls != 0 || doneCalls != 0 {
		t.Errorf("expected no callbacks on abort, got error=%d done=%d", errorCalls, doneCalls)
	}
}

func TestSendMessageChannels(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	eventCh, errCh := client.SendMessage(ctx, session.ID, &build.MessageRequest{Content: "hello"})

	var count int
	timeout := time.After(10 * time.Second)
	for eventCh != nil || errCh != nil {
		select {
		case _, ok := <-eventCh:
			if !ok {
				eventCh = nil
				continue
			}
			count++
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			t.Fatalf("unexpected stream error: %v", err)
		case <-timeout:
			t.Fatal("stream did not complete")
		}
	}
	if count == 0 {
		t.Error("expected events on channel")
	}
}

func TestSandboxFiles(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	upload, err := client.UploadFile(ctx, session.ID, "notes.txt", strings.NewReader("hello sandbox"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if upload.SizeBytes != int64(len("hello sandbox")) {
		t.Errorf("unexpected upload size: %d", upload.SizeBytes)
	}

	listing, err := client.ListDirectory(ctx, session.ID, "/")
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}
	// Directories come before files.
	var seenFile bool
	for _, entry := range listing.Entries {
		if entry.IsDirectory && seenFile {
			t.Errorf("directory %q listed after a file", entry.Name)
		}
		if !entry.IsDirectory {
			seenFile = true
		}
	}

	content, err := client.DownloadFile(ctx, session.ID, upload.Path)
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if string(content) != "hello sandbox" {
		t.Errorf("unexpected content: %q", content)
	}

	if err := client.DeleteFile(ctx, session.ID, upload.Path); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if _, err := client.DownloadFile(ctx, session.ID, upload.Path); err == nil {
		t.Error("expected error downloading deleted file")
	}
}

func TestWebappInfo(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Before any task runs the sandbox is still provisioning.
	info, err := client.GetWebappInfo(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetWebappInfo failed: %v", err)
	}
	if info.HasWebapp {
		t.Error("expected no webapp before first task")
	}

	err = client.ExecuteTask(ctx, session.ID, &build.MessageRequest{Content: "Build a landing page"}, build.StreamHandler{})
	if err != nil {
		t.Fatalf("ExecuteTask failed: %v", err)
	}

	info, err = client.GetWebappInfo(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetWebappInfo failed: %v", err)
	}
	if !info.HasWebapp || info.WebappURL == nil {
		t.Errorf("expected webapp after task, got %+v", info)
	}
}
