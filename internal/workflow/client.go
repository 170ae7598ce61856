package workflow

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

// Client talks to the relay workflow REST API. It is the persistence
// dependency a builder running outside the server process uses; in-process
// builders use the Store-backed service instead.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Create persists a new workflow and returns the stored record.
func (c *Client) Create(ctx context.Context, w *Workflow) (*Workflow, error) {
	return c.send(ctx, http.MethodPost, "/api/workflows", w, http.StatusCreated)
}

// Update replaces an existing workflow and returns the stored record.
func (c *Client) Update(ctx context.Context, id string, w *Workflow) (*Workflow, error) {
	return c.send(ctx, http.MethodPut, "/api/workflows/"+url.PathEscape(id), w, http.StatusOK)
}

// Get fetches a workflow by id.
func (c *Client) Get(ctx context.Context, id string) (*Workflow, error) {
	return c.send(ctx, http.MethodGet, "/api/workflows/"+url.PathEscape(id), nil, http.StatusOK)
}

func (c *Client) send(ctx context.Context, method, path string, w *Workflow, wantStatus int) (*Workflow, error) {
	var body io.Reader
	if w != nil {
		data, err := json.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("marshaling workflow: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("workflow API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out Workflow
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
