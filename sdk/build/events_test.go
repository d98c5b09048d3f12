package build_test

import (
	"encoding/json"
	"testing"

	"github.com/williamcory/buildtui/sdk/build"
)

func event(eventType, payload string) build.Event {
	return build.Event{Type: eventType, Payload: json.RawMessage(payload)}
}

func TestParsePacketMessageChunk(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"content object", `{"content":{"text":"hello"}}`, "hello"},
		{"content array", `{"content":[{"type":"text","text":"hel"},{"type":"text","text":"lo"}]}`, "hello"},
		{"bare text", `{"text":"hello"}`, "hello"},
		{"delta", `{"delta":"hello"}`, "hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := build.ParsePacket(event("agent_message_chunk", tc.payload))
			chunk, ok := p.(build.MessageChunkPacket)
			if !ok {
				t.Fatalf("expected MessageChunkPacket, got %T", p)
			}
			if chunk.Text != tc.want {
				t.Errorf("expected %q, got %q", tc.want, chunk.Text)
			}
		})
	}
}

func TestParsePacketTypeFromPayload(t *testing.T) {
	// The backend frames everything as "event: message" and carries the
	// real type in the payload.
	p := build.ParsePacket(event("message", `{"type":"agent_thought_chunk","content":{"text":"thinking"}}`))
	thought, ok := p.(build.ThoughtChunkPacket)
	if !ok {
		t.Fatalf("expected ThoughtChunkPacket, got %T", p)
	}
	if thought.Text != "thinking" {
		t.Errorf("expected thinking, got %q", thought.Text)
	}

	// Same fallback for the decoder's default type.
	p = build.ParsePacket(event(build.DefaultEventType, `{"type":"status","status":"provisioning"}`))
	if status, ok := p.(build.StatusPacket); !ok || status.Status != "provisioning" {
		t.Errorf("expected StatusPacket{provisioning}, got %#v", p)
	}
}

func TestParsePacketToolCallAliases(t *testing.T) {
	for _, name := range []string{"tool_call", "tool_call_start", "tool_start"} {
		t.Run(name, func(t *testing.T) {
			p := build.ParsePacket(event(name, `{"toolCallId":"t1","toolName":"write_file","title":"Write file"}`))
			call, ok := p.(build.ToolCallPacket)
			if !ok {
				t.Fatalf("expected ToolCallPacket, got %T", p)
			}
			if call.ID != "t1" || call.Name != "write_file" || call.Title != "Write file" {
				t.Errorf("unexpected packet: %+v", call)
			}
		})
	}

	// snake_case field names must work too.
	p := build.ParsePacket(event("tool_call", `{"tool_call_id":"t2","tool_name":"bash","tool_input":{"cmd":"ls"}}`))
	call := p.(build.ToolCallPacket)
	if call.ID != "t2" || call.Name != "bash" {
		t.Errorf("unexpected packet: %+v", call)
	}
	if string(call.Input) != `{"cmd":"ls"}` {
		t.Errorf("unexpected input: %s", call.Input)
	}
}

func TestParsePacketToolCallUpdate(t *testing.T) {
	p := build.ParsePacket(event("tool_call_update", `{"toolCallId":"t1","status":"completed","content":{"text":"done"}}`))
	update, ok := p.(build.ToolCallUpdatePacket)
	if !ok {
		t.Fatalf("expected ToolCallUpdatePacket, got %T", p)
	}
	if update.ID != "t1" || update.Status != "completed" || update.Output != "done" {
		t.Errorf("unexpected packet: %+v", update)
	}
}

func TestParsePacketPlanAliases(t *testing.T) {
	payload := `{"entries":[
		{"id":"1","content":"Scaffold project","status":"completed","priority":1},
		{"id":"2","content":"Write components","status":"in_progress","priority":2}
	]}`

	for _, name := range []string{"plan", "agent_plan_update"} {
		t.Run(name, func(t *testing.T) {
			p := build.ParsePacket(event(name, payload))
			plan, ok := p.(build.PlanPacket)
			if !ok {
				t.Fatalf("expected PlanPacket, got %T", p)
			}
			if len(plan.Entries) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(plan.Entries))
			}
			if plan.Entries[0].Description != "Scaffold project" || plan.Entries[0].Status != "completed" {
				t.Errorf("unexpected entry: %+v", plan.Entries[0])
			}
			if plan.Entries[1].Priority != 2 {
				t.Errorf("expected priority 2, got %d", plan.Entries[1].Priority)
			}
		})
	}
}

func TestParsePacketPlanText(t *testing.T) {
	p := build.ParsePacket(event("plan", `{"plan":"1. Do the thing\n2. Verify"}`))
	plan, ok := p.(build.PlanPacket)
	if !ok {
		t.Fatalf("expected PlanPacket, got %T", p)
	}
	if plan.Text == "" || len(plan.Entries) != 0 {
		t.Errorf("expected text-only plan, got %+v", plan)
	}
}

func TestParsePacketModeUpdate(t *testing.T) {
	cases := map[string]string{
		`{"currentModeId":"plan"}`:      "plan",
		`{"current_mode_id":"execute"}`: "execute",
		`{"mode":"review"}`:             "review",
	}
	for payload, want := range cases {
		p := build.ParsePacket(event("current_mode_update", payload))
		mode, ok := p.(build.ModeUpdatePacket)
		if !ok {
			t.Fatalf("expected ModeUpdatePacket, got %T", p)
		}
		if mode.Mode != want {
			t.Errorf("payload %s: expected %q, got %q", payload, want, mode.Mode)
		}
	}
}

func TestParsePacketPromptResponse(t *testing.T) {
	p := build.ParsePacket(event("prompt_response", `{"stopReason":"end_turn","usage":{"input_tokens":10}}`))
	done, ok := p.(build.PromptResponsePacket)
	if !ok {
		t.Fatalf("expected PromptResponsePacket, got %T", p)
	}
	if done.StopReason != "end_turn" {
		t.Errorf("expected end_turn, got %q", done.StopReason)
	}
	if string(done.Usage) != `{"input_tokens":10}` {
		t.Errorf("unexpected usage: %s", done.Usage)
	}
}

func TestParsePacketArtifactAliases(t *testing.T) {
	payload := `{"artifact":{"id":"a1","type":"web_app","name":"Dashboard","path":"/app"}}`
	for _, name := range []string{"artifact", "artifact_created"} {
		p := build.ParsePacket(event(name, payload))
		artifact, ok := p.(build.ArtifactPacket)
		if !ok {
			t.Fatalf("%s: expected ArtifactPacket, got %T", name, p)
		}
		if artifact.Artifact.ID != "a1" || artifact.Artifact.Type != build.ArtifactTypeWebApp {
			t.Errorf("%s: unexpected artifact: %+v", name, artifact.Artifact)
		}
	}

	// Unwrapped artifact payloads appear in older backends.
	p := build.ParsePacket(event("artifact", `{"id":"a2","type":"markdown","name":"report.md","path":"/report.md"}`))
	if artifact := p.(build.ArtifactPacket); artifact.Artifact.ID != "a2" {
		t.Errorf("unexpected artifact: %+v", artifact.Artifact)
	}
}

func TestParsePacketFileWrite(t *testing.T) {
	p := build.ParsePacket(event("file_write", `{"path":"/src/App.tsx","size_bytes":2048}`))
	fw, ok := p.(build.FileWritePacket)
	if !ok {
		t.Fatalf("expected FileWritePacket, got %T", p)
	}
	if fw.Path != "/src/App.tsx" || fw.SizeBytes != 2048 {
		t.Errorf("unexpected packet: %+v", fw)
	}
	if fw.Operation != "create" {
		t.Errorf("expected default operation create, got %q", fw.Operation)
	}
}

func TestParsePacketError(t *testing.T) {
	cases := map[string]string{
		`{"message":"sandbox crashed"}`: "sandbox crashed",
		`{"error":"sandbox crashed"}`:   "sandbox crashed",
		`{"detail":"sandbox crashed"}`:  "sandbox crashed",
	}
	for payload, want := range cases {
		p := build.ParsePacket(event("error", payload))
		errPkt, ok := p.(build.ErrorPacket)
		if !ok {
			t.Fatalf("expected ErrorPacket, got %T", p)
		}
		if errPkt.Message != want {
			t.Errorf("payload %s: expected %q, got %q", payload, want, errPkt.Message)
		}
	}
}

func TestParsePacketUnknownFallsThrough(t *testing.T) {
	p := build.ParsePacket(event("some_future_event", `{"anything":true}`))
	out, ok := p.(build.OutputPacket)
	if !ok {
		t.Fatalf("expected OutputPacket, got %T", p)
	}
	if out.EventType != "some_future_event" {
		t.Errorf("expected event type preserved, got %q", out.EventType)
	}
	if string(out.Raw) != `{"anything":true}` {
		t.Errorf("expected raw payload preserved, got %s", out.Raw)
	}
}
