package build

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Packet is a normalized build-stream event. The concrete types below
// form a closed union; consumers switch over them exhaustively instead
// of dispatching on raw event-name strings.
type Packet interface {
	packet()
}

// MessageChunkPacket carries incremental agent output text.
type MessageChunkPacket struct {
	Text string
}

// ThoughtChunkPacket carries incremental agent reasoning text.
type ThoughtChunkPacket struct {
	Text string
}

// ToolCallPacket announces a tool invocation.
type ToolCallPacket struct {
	ID    string
	Name  string
	Title string
	Kind  string
	Input json.RawMessage
}

// ToolCallUpdatePacket reports progress or completion of a tool call.
type ToolCallUpdatePacket struct {
	ID     string
	Status string
	Output string
}

// PlanEntry is one item of the agent's execution plan.
type PlanEntry struct {
	ID          string
	Description string
	Status      string
	Priority    int
}

// PlanPacket carries the agent's current execution plan.
type PlanPacket struct {
	Text    string
	Entries []PlanEntry
}

// ModeUpdatePacket signals an agent mode change (plan, implement, ...).
type ModeUpdatePacket struct {
	Mode string
}

// PromptResponsePacket signals that the agent finished processing.
type PromptResponsePacket struct {
	StopReason string
	Usage      json.RawMessage
}

// ArtifactPacket announces a newly generated artifact.
type ArtifactPacket struct {
	Artifact Artifact
}

// FileWritePacket reports a file written inside the sandbox.
type FileWritePacket struct {
	Path      string
	Operation string
	SizeBytes int64
}

// ErrorPacket carries a stream-level error reported by the backend.
type ErrorPacket struct {
	Message string
	Code    int
}

// StatusPacket is the legacy status frame some backends still emit.
type StatusPacket struct {
	Status string
}

// OutputPacket is the fallback for event types this client does not
// recognize; Raw preserves the payload untouched.
type OutputPacket struct {
	EventType string
	Raw       json.RawMessage
}

func (MessageChunkPacket) packet()   {}
func (ThoughtChunkPacket) packet()   {}
func (ToolCallPacket) packet()       {}
func (ToolCallUpdatePacket) packet() {}
func (PlanPacket) packet()           {}
func (ModeUpdatePacket) packet()     {}
func (PromptResponsePacket) packet() {}
func (ArtifactPacket) packet()       {}
func (FileWritePacket) packet()      {}
func (ErrorPacket) packet()          {}
func (StatusPacket) packet()         {}
func (OutputPacket) packet()         {}

// ParsePacket maps a raw event onto the typed union. The backend is
// semi-trusted: field names drift between camelCase and snake_case, and
// some event types have two names depending on backend version. All of
// that tolerance lives here so nothing downstream sees an untyped
// payload.
func ParsePacket(e Event) Packet {
	switch resolveEventType(e) {
	case "agent_message_chunk":
		return MessageChunkPacket{Text: contentText(e.Payload)}
	case "agent_thought_chunk":
		return ThoughtChunkPacket{Text: contentText(e.Payload)}
	case "tool_call", "tool_call_start", "tool_start":
		return parseToolCall(e.Payload)
	case "tool_call_update", "tool_call_progress", "tool_end":
		return parseToolCallUpdate(e.Payload)
	case "plan", "agent_plan_update":
		return parsePlan(e.Payload)
	case "current_mode_update", "mode_update":
		return ModeUpdatePacket{
			Mode: firstString(e.Payload, "currentModeId", "current_mode_id", "mode"),
		}
	case "prompt_response", "done":
		return PromptResponsePacket{
			StopReason: firstString(e.Payload, "stopReason", "stop_reason"),
			Usage:      rawField(e.Payload, "usage"),
		}
	case "artifact", "artifact_created":
		return parseArtifact(e.Payload)
	case "file_write":
		return parseFileWrite(e.Payload)
	case "error":
		return ErrorPacket{
			Message: firstString(e.Payload, "message", "error", "detail"),
			Code:    int(gjson.GetBytes(e.Payload, "code").Int()),
		}
	case "status":
		return StatusPacket{Status: gjson.GetBytes(e.Payload, "status").String()}
	default:
		return OutputPacket{EventType: e.Type, Raw: e.Payload}
	}
}

// resolveEventType prefers the SSE event name, but the original backend
// frames everything as "event: message" and routes on a "type" field in
// the payload, so fall through to that for generic names.
func resolveEventType(e Event) string {
	t := e.Type
	if t == "" || t == "message" || t == DefaultEventType {
		if wire := gjson.GetBytes(e.Payload, "type").String(); wire != "" {
			return wire
		}
	}
	return t
}

func parseToolCall(payload json.RawMessage) ToolCallPacket {
	return ToolCallPacket{
		ID:    firstString(payload, "toolCallId", "tool_call_id", "id"),
		Name:  firstString(payload, "toolName", "tool_name", "name"),
		Title: firstString(payload, "title", "description"),
		Kind:  gjson.GetBytes(payload, "kind").String(),
		Input: firstRaw(payload, "rawInput", "tool_input", "input"),
	}
}

func parseToolCallUpdate(payload json.RawMessage) ToolCallUpdatePacket {
	return ToolCallUpdatePacket{
		ID:     firstString(payload, "toolCallId", "tool_call_id", "id"),
		Status: gjson.GetBytes(payload, "status").String(),
		Output: firstString(payload, "content.text", "content.0.text", "output", "result"),
	}
}

func parsePlan(payload json.RawMessage) PlanPacket {
	var p PlanPacket
	if v := gjson.GetBytes(payload, "plan"); v.Type == gjson.String {
		p.Text = v.String()
	}

	entries := gjson.GetBytes(payload, "entries")
	if !entries.IsArray() {
		entries = gjson.GetBytes(payload, "plan.entries")
	}
	if !entries.IsArray() {
		return p
	}
	for _, entry := range entries.Array() {
		p.Entries = append(p.Entries, PlanEntry{
			ID:          entry.Get("id").String(),
			Description: firstResultString(entry, "content", "description"),
			Status:      entry.Get("status").String(),
			Priority:    int(entry.Get("priority").Int()),
		})
	}
	return p
}

func parseArtifact(payload json.RawMessage) ArtifactPacket {
	raw := rawField(payload, "artifact")
	if raw == nil {
		raw = payload
	}
	var a Artifact
	// Best effort: a malformed artifact still announces that one exists.
	_ = json.Unmarshal(raw, &a)
	return ArtifactPacket{Artifact: a}
}

func parseFileWrite(payload json.RawMessage) FileWritePacket {
	op := gjson.GetBytes(payload, "operation").String()
	if op == "" {
		op = "create"
	}
	size := gjson.GetBytes(payload, "size_bytes")
	if !size.Exists() {
		size = gjson.GetBytes(payload, "sizeBytes")
	}
	return FileWritePacket{
		Path:      gjson.GetBytes(payload, "path").String(),
		Operation: op,
		SizeBytes: size.Int(),
	}
}

// contentText extracts agent text from the content shapes the backend
// has been observed to send: a single content block, an array of
// blocks, or a bare text/delta field.
func contentText(payload json.RawMessage) string {
	if v := gjson.GetBytes(payload, "content.text"); v.Exists() {
		return v.String()
	}
	if blocks := gjson.GetBytes(payload, "content"); blocks.IsArray() {
		var text string
		for _, block := range blocks.Array() {
			if block.Get("type").String() == "text" || block.Get("text").Exists() {
				text += block.Get("text").String()
			}
		}
		return text
	}
	return firstString(payload, "text", "delta")
}

// firstString returns the first non-empty string among the given gjson
// paths.
func firstString(payload json.RawMessage, paths ...string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(payload, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstResultString(r gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// rawField returns the raw JSON of a field, or nil if absent.
func rawField(payload json.RawMessage, path string) json.RawMessage {
	if v := gjson.GetBytes(payload, path); v.Exists() {
		return json.RawMessage(v.Raw)
	}
	return nil
}

func firstRaw(payload json.RawMessage, paths ...string) json.RawMessage {
	for _, path := range paths {
		if raw := rawField(payload, path); raw != nil {
			return raw
		}
	}
	return nil
}
