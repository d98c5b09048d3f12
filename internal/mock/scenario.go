package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/williamcory/buildtui/sdk/build"
)

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookup(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var req build.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	s.recordMessage(id, "user", req.Content)
	response := s.runScenario(w, flusher, id, req.Content)
	s.recordMessage(id, "agent", response)

	s.mu.Lock()
	if session := s.sessions[id]; session != nil {
		session.SandboxStatus = "ready"
		session.UpdatedAt = time.Now().UTC()
	}
	s.mu.Unlock()
}

// runScenario streams a canned build run: status, mode, plan, a couple
// of tool calls with file writes, the response text in chunks, an
// artifact, and the terminal prompt_response. Returns the full
// response text for message history.
func (s *Server) runScenario(w http.ResponseWriter, flusher http.Flusher, sessionID, userMessage string) string {
	send := func(eventType string, payload map[string]any) {
		s.sendFrame(w, flusher, eventType, payload)
		time.Sleep(s.Delay)
	}

	send("status", map[string]any{"status": "starting"})
	send("current_mode_update", map[string]any{"currentModeId": "build"})

	send("plan", map[string]any{
		"entries": []map[string]any{
			{"id": "1", "content": "Scaffold the project", "status": "in_progress", "priority": 1},
			{"id": "2", "content": "Implement the request", "status": "pending", "priority": 2},
			{"id": "3", "content": "Wire up the preview", "status": "pending", "priority": 3},
		},
	})

	send("agent_thought_chunk", map[string]any{
		"content": map[string]any{"text": "Breaking the request into files to generate."},
	})

	toolCallID := uuid.NewString()
	send("tool_call", map[string]any{
		"toolCallId": toolCallID,
		"toolName":   "write_file",
		"title":      "Write src/App.tsx",
		"kind":       "edit",
		"rawInput":   map[string]any{"path": "/src/App.tsx"},
	})
	send("file_write", map[string]any{
		"path":       "/src/App.tsx",
		"operation":  "create",
		"size_bytes": 2048,
	})
	send("tool_call_update", map[string]any{
		"toolCallId": toolCallID,
		"status":     "completed",
		"content":    map[string]any{"text": "Wrote /src/App.tsx"},
	})

	s.mu.Lock()
	s.files[sessionID]["/src/App.tsx"] = []byte("export default function App() { return null }\n")
	s.mu.Unlock()

	response := scenarioResponse(userMessage)
	for _, chunk := range chunkText(response, 24) {
		send("agent_message_chunk", map[string]any{
			"content": map[string]any{"text": chunk},
		})
	}

	artifact := webappArtifact(sessionID)
	send("artifact", map[string]any{"artifact": artifact})

	send("prompt_response", map[string]any{
		"stopReason": "end_turn",
		"usage":      map[string]any{"input_tokens": 120, "output_tokens": 680},
	})

	return response
}

// sendFrame writes one SSE frame. Type and timestamp are stamped onto
// the marshaled payload the way the real serializer does, so frames
// always carry them even when a scenario forgets.
func (s *Server) sendFrame(w http.ResponseWriter, flusher http.Flusher, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	data, _ = sjson.SetBytes(data, "type", eventType)
	data, _ = sjson.SetBytes(data, "timestamp", time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	flusher.Flush()
}

func (s *Server) recordMessage(sessionID, messageType, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], build.MessageResponse{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Type:      messageType,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

func scenarioResponse(userMessage string) string {
	lower := strings.ToLower(userMessage)
	switch {
	case strings.Contains(lower, "dashboard"):
		return "I've built a dashboard with a summary header, a chart panel and a recent-activity table. The preview is live; tell me which widgets to adjust."
	case strings.Contains(lower, "landing"):
		return "Your landing page is up: hero section, feature grid and a signup form. Open the preview to see it rendered."
	default:
		return "I've set up the project and implemented your request. The preview link is ready; let me know what to change next."
	}
}

func chunkText(text string, size int) []string {
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func webappArtifact(sessionID string) build.Artifact {
	url := fmt.Sprintf("https://%s.preview.localhost", sessionID)
	return build.Artifact{
		ID:         "artifact-" + sessionID,
		SessionID:  sessionID,
		Type:       build.ArtifactTypeWebApp,
		Name:       "Web app",
		Path:       "/",
		PreviewURL: &url,
	}
}
