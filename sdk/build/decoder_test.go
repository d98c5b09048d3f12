package build_test

import (
	"testing"

	"github.com/williamcory/buildtui/sdk/build"
)

func TestStreamDecoderBasic(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte("event: status\ndata: {\"state\":\"running\"}\n"))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "status" {
		t.Errorf("expected type status, got %q", events[0].Type)
	}
	if string(events[0].Payload) != `{"state":"running"}` {
		t.Errorf("unexpected payload: %s", events[0].Payload)
	}
}

func TestStreamDecoderDefaultEventType(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte("data: {\"text\":\"hi\"}\n"))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != build.DefaultEventType {
		t.Errorf("expected default type %q, got %q", build.DefaultEventType, events[0].Type)
	}
}

func TestStreamDecoderEventTypePersists(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte("event: agent_message_chunk\n"))
	d.Feed([]byte("data: {\"text\":\"a\"}\n"))
	d.Feed([]byte("data: {\"text\":\"b\"}\n"))
	d.Feed([]byte("event: status\n"))
	d.Feed([]byte("data: {\"state\":\"done\"}\n"))

	types := []string{"agent_message_chunk", "agent_message_chunk", "status"}
	if len(events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(events))
	}
	for i, want := range types {
		if events[i].Type != want {
			t.Errorf("event %d: expected type %q, got %q", i, want, events[i].Type)
		}
	}
}

func TestStreamDecoderChunkInvariance(t *testing.T) {
	stream := "event: tool_call\n" +
		"data: {\"toolCallId\":\"t1\",\"toolName\":\"write_file\"}\n" +
		"event: agent_message_chunk\n" +
		"data: {\"text\":\"hello\"}\n" +
		"data: {\"text\":\" world\"}\n" +
		"event: done\n" +
		"data: {\"stopReason\":\"end_turn\"}\n"

	decode := func(chunks []string) []build.Event {
		var events []build.Event
		d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })
		for _, chunk := range chunks {
			d.Feed([]byte(chunk))
		}
		return events
	}

	whole := decode([]string{stream})
	if len(whole) != 4 {
		t.Fatalf("expected 4 events from full stream, got %d", len(whole))
	}

	var byteAtATime []string
	for i := 0; i < len(stream); i++ {
		byteAtATime = append(byteAtATime, stream[i:i+1])
	}

	cases := map[string][]string{
		"byte at a time": byteAtATime,
		"split mid-line": {stream[:25], stream[25:60], stream[60:]},
		"two halves":     {stream[:len(stream)/2], stream[len(stream)/2:]},
	}

	for name, chunks := range cases {
		t.Run(name, func(t *testing.T) {
			got := decode(chunks)
			if len(got) != len(whole) {
				t.Fatalf("expected %d events, got %d", len(whole), len(got))
			}
			for i := range whole {
				if got[i].Type != whole[i].Type || string(got[i].Payload) != string(whole[i].Payload) {
					t.Errorf("event %d differs: %+v vs %+v", i, got[i], whole[i])
				}
			}
		})
	}
}

func TestStreamDecoderSplitEventLine(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	// The "event:" line itself is split across chunks.
	d.Feed([]byte("event: stat"))
	d.Feed([]byte("us\ndata: {\"state\":\"ok\"}\n"))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "status" {
		t.Errorf("expected type status, got %q", events[0].Type)
	}
}

func TestStreamDecoderMalformedJSONDropped(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte("data: {\"ok\":1}\n"))
	d.Feed([]byte("data: {not json at all\n"))
	d.Feed([]byte("data: \n"))
	d.Feed([]byte("data: {\"ok\":2}\n"))

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if string(events[0].Payload) != `{"ok":1}` || string(events[1].Payload) != `{"ok":2}` {
		t.Errorf("unexpected payloads: %s / %s", events[0].Payload, events[1].Payload)
	}
}

func TestStreamDecoderIgnoresUnknownLines(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte(": keepalive comment\n"))
	d.Feed([]byte("\n"))
	d.Feed([]byte("retry: 3000\n"))
	d.Feed([]byte("data: {\"ok\":true}\n"))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestStreamDecoderTrailingPartialNotEmitted(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	// Stream ends mid-line; the unterminated data must never surface.
	d.Feed([]byte("data: {\"ok\":1}\ndata: {\"truncated\":"))

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if string(events[0].Payload) != `{"ok":1}` {
		t.Errorf("unexpected payload: %s", events[0].Payload)
	}
}

func TestStreamDecoderMultipleEventsPerChunk(t *testing.T) {
	var events []build.Event
	d := build.NewStreamDecoder(func(e build.Event) { events = append(events, e) })

	d.Feed([]byte("data: {\"n\":1}\ndata: {\"n\":2}\ndata: {\"n\":3}\n"))

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		if string(events[i].Payload) != want {
			t.Errorf("event %d: expected %s, got %s", i, want, events[i].Payload)
		}
	}
}
