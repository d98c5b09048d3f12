package build

import (
	"context"
	"fmt"
	"net/http"
)

// ListSessions returns all sessions, most recently updated first.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var result SessionListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sessions", nil, &result); err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// CreateSession creates a new session. Supplying an ID in the request
// lets an optimistic local entry and the server record share identity.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if req == nil {
		req = &CreateSessionRequest{}
	}
	var result Session
	if err := c.doRequest(ctx, http.MethodPost, "/api/sessions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSession retrieves a session by ID.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var result Session
	path := fmt.Sprintf("/api/sessions/%s", sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateSessionName renames a session.
func (c *Client) UpdateSessionName(ctx context.Context, sessionID, name string) (*Session, error) {
	var result Session
	path := fmt.Sprintf("/api/sessions/%s/name", sessionID)
	req := &UpdateSessionNameRequest{Name: name}
	if err := c.doRequest(ctx, http.MethodPut, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateSessionName asks the server to derive a title from the
// session's first message.
func (c *Client) GenerateSessionName(ctx context.Context, sessionID string) (string, error) {
	var result GenerateNameResponse
	path := fmt.Sprintf("/api/sessions/%s/generate-name", sessionID)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &result); err != nil {
		return "", err
	}
	return result.Name, nil
}

// DeleteSession deletes a session and its sandbox.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("/api/sessions/%s", sessionID)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// ListMessages returns the stored message history of a session.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]MessageResponse, error) {
	var result MessageListResponse
	path := fmt.Sprintf("/api/sessions/%s/messages", sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}
