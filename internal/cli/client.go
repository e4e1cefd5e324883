package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/me/credsched/internal/workload"
	"github.com/me/credsched/pkg/model"
)

// Client talks to the runs API of a credsched server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a credsched API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	}
}

// envelope mirrors model.Response with the payload left undecoded.
type envelope struct {
	Status     string            `json:"status"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// SubmitRun posts w to the server, which simulates and records it.
func (c *Client) SubmitRun(w *workload.Workload) (*model.Run, error) {
	body, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal workload: %w", err)
	}
	var run model.Run
	if _, err := c.call(http.MethodPost, "/api/v1/runs", bytes.NewReader(body), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns one page of recorded runs, newest first.
func (c *Client) ListRuns(state string, limit int) ([]model.Run, *model.Pagination, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if state != "" {
		q.Set("state", state)
	}
	var runs []model.Run
	pg, err := c.call(http.MethodGet, "/api/v1/runs?"+q.Encode(), nil, &runs)
	if err != nil {
		return nil, nil, err
	}
	return runs, pg, nil
}

// GetRun fetches a recorded run.
func (c *Client) GetRun(id string) (*model.Run, error) {
	var run model.Run
	if _, err := c.call(http.MethodGet, "/api/v1/runs/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// call performs one request and decodes the envelope's data into out. An
// error envelope is returned as its *model.APIError.
func (c *Client) call(method, path string, body io.Reader, out any) (*model.Pagination, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Logger.Debug("HTTP request", "method", method, "url", req.URL.String())
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	c.Logger.Debug("HTTP response", "status", resp.StatusCode)

	if env.Error != nil {
		return nil, env.Error
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return env.Pagination, nil
}
