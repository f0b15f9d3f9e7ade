package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// Client is an HTTP client for triggering a correction run
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new trigger client. Runs are synchronous and can take
// minutes, so the timeout is generous.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

// NewWithHTTPClient creates a new trigger client with a custom HTTP client
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Run triggers a correction run and returns its summary. A run that finished
// with library errors returns both the summary and an error.
func (c *Client) Run(ctx context.Context) (*pipeline.RunResponse, error) {
	url := fmt.Sprintf("%s/v1/run", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var runResp pipeline.RunResponse
	if err := json.NewDecoder(resp.Body).Decode(&runResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &runResp, fmt.Errorf("run finished with errors (status %d): %s", resp.StatusCode, runResp.Text)
	}

	return &runResp, nil
}
