package build

import (
	"encoding/json"
	"time"
)

// SharedStatus describes who can see a session.
type SharedStatus string

const (
	SharedStatusPrivate SharedStatus = "private"
	SharedStatusPublic  SharedStatus = "public"
)

// Session is a build session as returned by the server.
type Session struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	AgentID       int          `json:"agent_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	SharedStatus  SharedStatus `json:"shared_status"`
	ProjectID     *int         `json:"project_id,omitempty"`
	SandboxStatus string       `json:"sandbox_status,omitempty"`
}

// SessionListResponse wraps the session list endpoint response.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// CreateSessionRequest creates a session. ID may be supplied by the
// client so an optimistic local entry and the eventual server record
// share an identity; the server generates one otherwise.
type CreateSessionRequest struct {
	ID        *string `json:"id,omitempty"`
	Name      *string `json:"name,omitempty"`
	ProjectID *int    `json:"project_id,omitempty"`
}

// UpdateSessionNameRequest renames a session.
type UpdateSessionNameRequest struct {
	Name string `json:"name"`
}

// GenerateNameResponse is the generated session title.
type GenerateNameResponse struct {
	Name string `json:"name"`
}

// MessageRequest is the body of a send-message call.
type MessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is a stored session message.
type MessageResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Type      string          `json:"message_type"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// MessageListResponse wraps the message list endpoint response.
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ArtifactType classifies generated artifacts.
type ArtifactType string

const (
	ArtifactTypeWebApp   ArtifactType = "web_app"
	ArtifactTypeMarkdown ArtifactType = "markdown"
	ArtifactTypeImage    ArtifactType = "image"
	ArtifactTypeCSV      ArtifactType = "csv"
	ArtifactTypeExcel    ArtifactType = "excel"
	ArtifactTypePPTX     ArtifactType = "pptx"
	ArtifactTypeDocx     ArtifactType = "docx"
	ArtifactTypePDF      ArtifactType = "pdf"
	ArtifactTypeCode     ArtifactType = "code"
	ArtifactTypeOther    ArtifactType = "other"
)

// Artifact is a file or web app generated inside a session's sandbox.
type Artifact struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id,omitempty"`
	Type        ArtifactType `json:"type"`
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	PreviewURL  *string      `json:"preview_url,omitempty"`
	DownloadURL *string      `json:"download_url,omitempty"`
	MimeType    *string      `json:"mime_type,omitempty"`
	SizeBytes   *int64       `json:"size_bytes,omitempty"`
}

// FileSystemEntry is one entry of a sandbox directory listing.
type FileSystemEntry struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	IsDirectory bool    `json:"is_directory"`
	Size        *int64  `json:"size,omitempty"`
	MimeType    *string `json:"mime_type,omitempty"`
}

// DirectoryListing is a sandbox directory: directories first, then
// files, both alphabetical (server-guaranteed ordering).
type DirectoryListing struct {
	Path    string            `json:"path"`
	Entries []FileSystemEntry `json:"entries"`
}

// WebappInfo describes the session's web app, if any.
type WebappInfo struct {
	HasWebapp bool    `json:"has_webapp"`
	WebappURL *string `json:"webapp_url"`
	Status    string  `json:"status"`
}

// UploadResponse confirms a sandbox file upload.
type UploadResponse struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// HealthResponse is the health endpoint response.
type HealthResponse struct {
	Status string `json:"status"`
}
