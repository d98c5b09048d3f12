// Package mock is an in-memory build backend for development and
// tests: the full session REST surface plus a canned SSE scenario that
// walks a task through mode update, plan, tool calls, file writes and
// an artifact.
package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/williamcory/buildtui/sdk/build"
)

type Server struct {
	port int

	// Delay paces SSE frames for a realistic feel; tests set it to 0.
	Delay time.Duration

	mu       sync.RWMutex
	sessions map[string]*build.Session
	order    []string
	messages map[string][]build.MessageResponse
	files    map[string]map[string][]byte // sessionID -> path -> content
}

func NewServer(port int) *Server {
	return &Server{
		port:     port,
		Delay:    40 * time.Millisecond,
		sessions: make(map[string]*build.Session),
		messages: make(map[string][]build.MessageResponse),
		files:    make(map[string]map[string][]byte),
	}
}

// Handler returns the server's routes; tests mount it on httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/name", s.handleUpdateName)
	mux.HandleFunc("POST /api/sessions/{id}/generate-name", s.handleGenerateName)
	mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/sessions/{id}/send-message", s.handleSendMessage)
	mux.HandleFunc("GET /api/sessions/{id}/artifacts", s.handleListArtifacts)
	mux.HandleFunc("GET /api/sessions/{id}/files", s.handleListFiles)
	mux.HandleFunc("DELETE /api/sessions/{id}/files", s.handleDeleteFile)
	mux.HandleFunc("GET /api/sessions/{id}/files/download", s.handleDownloadFile)
	mux.HandleFunc("POST /api/sessions/{id}/files/upload", s.handleUploadFile)
	mux.HandleFunc("GET /api/sessions/{id}/webapp", s.handleWebapp)
	return mux
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("Mock build server listening on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, build.HealthResponse{Status: "ok"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]build.Session, 0, len(s.order))
	// Most recently created first, matching the real backend.
	for i := len(s.order) - 1; i >= 0; i-- {
		sessions = append(sessions, *s.sessions[s.order[i]])
	}
	writeJSON(w, build.SessionListResponse{Sessions: sessions})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req build.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if req.ID != nil && *req.ID != "" {
		if _, exists := s.sessions[*req.ID]; exists {
			http.Error(w, "session already exists", http.StatusConflict)
			return
		}
		id = *req.ID
	}

	now := time.Now().UTC()
	session := &build.Session{
		ID:            id,
		Name:          "Untitled session",
		AgentID:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
		SharedStatus:  build.SharedStatusPrivate,
		ProjectID:     req.ProjectID,
		SandboxStatus: "provisioning",
	}
	if req.Name != nil && *req.Name != "" {
		session.Name = *req.Name
	}

	s.sessions[id] = session
	s.order = append(s.order, id)
	s.files[id] = map[string][]byte{
		"/index.html": []byte("<!doctype html><title>placeholder</title>"),
	}

	writeJSON(w, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	delete(s.files, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req build.UpdateSessionNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[r.PathValue("id")]
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	session.Name = req.Name
	session.UpdatedAt = time.Now().UTC()
	writeJSON(w, session)
}

func (s *Server) handleGenerateName(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	name := "New build"
	if msgs := s.messages[id]; len(msgs) > 0 {
		name = msgs[0].Content
		if len(name) > 40 {
			name = name[:40]
		}
	}
	session.Name = name
	writeJSON(w, build.GenerateNameResponse{Name: name})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookup(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[id]
	if msgs == nil {
		msgs = []build.MessageResponse{}
	}
	writeJSON(w, build.MessageListResponse{Messages: msgs})
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookup(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"artifacts": []build.Artifact{webappArtifact(id)},
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookup(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	dir := r.URL.Query().Get("path")
	if dir == "" {
		dir = "/"
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Project each stored path onto its immediate child under dir.
	prefix := strings.TrimSuffix(dir, "/") + "/"
	dirs := map[string]bool{}
	var fileEntries []build.FileSystemEntry
	for path, content := range s.files[id] {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			dirs[rest[:i]] = true
			continue
		}
		size := int64(len(content))
		fileEntries = append(fileEntries, build.FileSystemEntry{
			Name: rest,
			Path: path,
			Size: &size,
		})
	}

	var dirEntries []build.FileSystemEntry
	for name := range dirs {
		dirEntries = append(dirEntries, build.FileSystemEntry{
			Name:        name,
			Path:        prefix + name,
			IsDirectory: true,
		})
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name < dirEntries[j].Name })
	sort.Slice(fileEntries, func(i, j int) bool { return fileEntries[i].Name < fileEntries[j].Name })

	writeJSON(w, build.DirectoryListing{
		Path:    dir,
		Entries: append(dirEntries, fileEntries...),
	})
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path := r.URL.Query().Get("path")

	s.mu.RLock()
	content, ok := s.files[id][path]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookup(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	size, err := io.Copy(&buf, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	path := "/uploads/" + header.Filename
	s.mu.Lock()
	s.files[id][path] = buf.Bytes()
	s.mu.Unlock()

	writeJSON(w, build.UploadResponse{
		Filename:  header.Filename,
		Path:      path,
		SizeBytes: size,
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path := r.URL.Query().Get("path")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id][path]; !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	delete(s.files[id], path)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebapp(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, ok := s.lookup(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	if session.SandboxStatus != "ready" {
		writeJSON(w, build.WebappInfo{HasWebapp: false, Status: session.SandboxStatus})
		return
	}
	url := fmt.Sprintf("https://%s.preview.localhost", id)
	writeJSON(w, build.WebappInfo{HasWebapp: true, WebappURL: &url, Status: "running"})
}

func (s *Server) lookup(id string) (build.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return build.Session{}, false
	}
	return *session, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
