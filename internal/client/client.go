// Package client talks to the event API over HTTP.
package client

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

	"github.com/PratikDhanave/edge-event-service/internal/models"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// HTTPClient is a client for the /api/event endpoints.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting baseURL (e.g. "http://localhost:8000").
func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// PostEvent sends one raw JSON event as-is, so the server's validation is
// what decides whether it is accepted.
func (c *HTTPClient) PostEvent(ctx context.Context, event json.RawMessage) (*models.EventIngestResponse, error) {
	var resp models.EventIngestResponse
	if err := c.do(ctx, http.MethodPost, "/api/event", bytes.NewReader(event), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEvents queries events. Empty filter fields are omitted.
func (c *HTTPClient) ListEvents(ctx context.Context, f models.FilterEcho) (*models.EventQueryResponse, error) {
	q := url.Values{}
	set := func(k string, v *string) {
		if v != nil && *v != "" {
			q.Set(k, *v)
		}
	}
	set("start", f.Start)
	set("end", f.End)
	set("event_kind", f.EventKind)
	set("event_type", f.EventType)

	path := "/api/event"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp models.EventQueryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
