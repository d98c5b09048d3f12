package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StreamHandler receives the lifecycle of one streaming task. OnEvent
// is called synchronously for every decoded event, in stream order.
// Exactly one of OnError / OnDone is called per ExecuteTask call unless
// the context is canceled, in which case neither fires. Nil callbacks
// are allowed and skipped.
type StreamHandler struct {
	OnEvent func(Event)
	OnError func(error)
	OnDone  func()
}

// ExecuteTask sends a message to the session and streams the agent's
// response to the handler. It blocks until the stream ends, fails, or
// ctx is canceled. On cancellation it returns ctx.Err() without
// invoking OnError or OnDone; the caller asked the work to stop and
// gets no terminal callback for it.
func (c *Client) ExecuteTask(ctx context.Context, sessionID string, req *MessageRequest, h StreamHandler) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	path := fmt.Sprintf("/api/sessions/%s/send-message", sessionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	sl := c.logger.StartStream(sessionID)

	// Use a client without timeout for SSE; lifetime is bounded by ctx.
	sseClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := sseClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = fmt.Errorf("do request: %w", err)
		sl.Fail(err)
		if h.OnError != nil {
			h.OnError(err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
		sl.Fail(err)
		if h.OnError != nil {
			h.OnError(err)
		}
		return err
	}

	decoder := NewStreamDecoder(func(e Event) {
		sl.Event(e.Type)
		if h.OnEvent != nil {
			h.OnEvent(e)
		}
	})

	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			decoder.Feed(chunk[:n])
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				sl.Done()
				if h.OnDone != nil {
					h.OnDone()
				}
				return nil
			}
			err = fmt.Errorf("read stream: %w", err)
			sl.Fail(err)
			if h.OnError != nil {
				h.OnError(err)
			}
			return err
		}
	}
}

// SendMessage is the channel form of ExecuteTask. The event channel is
// closed when the stream ends; the error channel carries at most one
// error (including ctx.Err() on cancellation).
func (c *Client) SendMessage(ctx context.Context, sessionID string, req *MessageRequest) (<-chan Event, <-chan error) {
	eventCh := make(chan Event, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		err := c.ExecuteTask(ctx, sessionID, req, StreamHandler{
			OnEvent: func(e Event) {
				select {
				case eventCh <- e:
				case <-ctx.Done():
				}
			},
		})
		if err != nil {
			errCh <- err
		}
	}()

	return eventCh, errCh
}
