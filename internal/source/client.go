// Package source fetches the recipe records from the remote JSON endpoint.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/logging"
)

// DefaultURL is the public endpoint serving the recipe records.
const DefaultURL = "https://s3-ap-southeast-1.amazonaws.com/he-public-data/reciped9d7b8c.json"

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client reads the full record set with one GET. It satisfies core.Fetcher.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client for url. A zero timeout applies none.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs the GET and decodes the JSON array of records.
func (c *Client) Fetch(ctx context.Context) ([]core.Record, error) {
	logger := logging.WithFields(ctx, "url", c.url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("source returned status %d: %s", resp.StatusCode, body)
	}

	var records []core.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode source response: %w", err)
	}

	logger.Info("records fetched",
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}
