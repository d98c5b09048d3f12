// Package build provides a Go client for the build-session backend:
// session lifecycle over REST, sandbox/artifact browsing, and streaming
// task execution over server-sent events.
//
// Example usage:
//
//	client := build.NewClient("http://localhost:8000")
//
//	session, err := client.CreateSession(ctx, &build.CreateSessionRequest{})
//
//	err = client.ExecuteTask(ctx, session.ID,
//		&build.MessageRequest{Content: "Build a dashboard"},
//		build.StreamHandler{
//			OnEvent: func(e build.Event) { /* handle packet */ },
//			OnDone:  func() { /* stream finished */ },
//		})
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a build-session server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout for non-streaming requests.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if client.httpClient == nil {
			client.httpClient = &http.Client{}
		}
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *Logger) ClientOption {
	return func(client *Client) {
		if l != nil {
			client.logger = l
		}
	}
}

// NewClient creates a new client for the given server base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: GetLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// String creates a string pointer (helper for optional fields).
func String(s string) *string {
	return &s
}

// Int creates an int pointer (helper for optional fields).
func Int(i int) *int {
	return &i
}

// buildURL joins the base URL, the API path and optional query params.
func (c *Client) buildURL(path string, queryParams ...map[string]string) string {
	u, _ := url.Parse(c.baseURL + path)

	if len(queryParams) > 0 {
		q := u.Query()
		for _, params := range queryParams {
			for k, v := range params {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// doRequest performs an HTTP request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	reqURL := c.buildURL(path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, result)
}

// doJSON executes a prepared request with the standard logging, error
// and JSON-decoding policy. Used by methods that need query params or
// non-JSON request bodies and build their own *http.Request.
func (c *Client) doJSON(req *http.Request, result interface{}) error {
	rl := c.logger.StartRequest(req.Method, req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error(err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
		rl.Error(err)
		return err
	}

	rl.Success(resp.StatusCode)

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// Health checks the server health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
