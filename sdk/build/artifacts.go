package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ListArtifacts returns the artifacts generated in a session.
func (c *Client) ListArtifacts(ctx context.Context, sessionID string) ([]Artifact, error) {
	var result struct {
		Artifacts []Artifact `json:"artifacts"`
	}
	path := fmt.Sprintf("/api/sessions/%s/artifacts", sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// ListDirectory lists a directory inside the session sandbox. The
// server returns directories first, then files, both alphabetical.
func (c *Client) ListDirectory(ctx context.Context, sessionID, dirPath string) (*DirectoryListing, error) {
	var result DirectoryListing
	path := fmt.Sprintf("/api/sessions/%s/files", sessionID)
	reqURL := c.buildURL(path, map[string]string{"path": dirPath})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWebappInfo reports whether the session has a running web app and
// where it is served.
func (c *Client) GetWebappInfo(ctx context.Context, sessionID string) (*WebappInfo, error) {
	var result WebappInfo
	path := fmt.Sprintf("/api/sessions/%s/webapp", sessionID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadFile downloads a sandbox file's raw bytes.
func (c *Client) DownloadFile(ctx context.Context, sessionID, filePath string) ([]byte, error) {
	path := fmt.Sprintf("/api/sessions/%s/files/download", sessionID)
	reqURL := c.buildURL(path, map[string]string{"path": filePath})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	rl := c.logger.StartRequest(http.MethodGet, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error(err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
		rl.Error(err)
		return nil, err
	}
	rl.Success(resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// UploadFile uploads a file into the session sandbox via multipart
// form data.
func (c *Client) UploadFile(ctx context.Context, sessionID, filename string, content io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	path := fmt.Sprintf("/api/sessions/%s/files/upload", sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var result UploadResponse
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFile removes a file from the session sandbox.
func (c *Client) DeleteFile(ctx context.Context, sessionID, filePath string) error {
	path := fmt.Sprintf("/api/sessions/%s/files", sessionID)
	reqURL := c.buildURL(path, map[string]string{"path": filePath})

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doJSON(req, nil)
}
