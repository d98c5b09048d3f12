package mock_test

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/williamcory/buildtui/internal/mock"
	"github.com/williamcory/buildtui/sdk/build"
)

// Every streamed frame must carry the stamped type and timestamp, the
// same envelope the real serializer guarantees.
func TestStreamFramesAreStamped(t *testing.T) {
	srv := mock.NewServer(0)
	srv.Delay = 0
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := build.NewClient(ts.URL)
	session, err := client.CreateSession(context.Background(), &build.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := http.Post(
		ts.URL+"/api/sessions/"+session.ID+"/send-message",
		"application/json",
		bytes.NewReader([]byte(`{"content":"hello"}`)),
	)
	if err != nil {
		t.Fatalf("send-message failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	var frames int
	scanner := bufio.NewScanner(resp.Body)
	var eventName string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		frames++
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if !gjson.Valid(data) {
			t.Fatalf("frame is not valid JSON: %s", data)
		}
		if got := gjson.Get(data, "type").String(); got != eventName {
			t.Errorf("payload type %q does not match event name %q", got, eventName)
		}
		if !gjson.Get(data, "timestamp").Exists() {
			t.Errorf("frame missing timestamp: %s", data)
		}
	}
	if frames == 0 {
		t.Fatal("expected stamped frames in stream")
	}
}
