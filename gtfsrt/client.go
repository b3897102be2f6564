package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client fetches GTFS-RT protobuf data from a URL or a local file
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new GTFS-RT client. A zero timeout means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw protobuf bytes of a feed. urlOrPath may be an http(s)
// URL or a local file path. Returns nil if urlOrPath is empty (allows optional feeds).
func (c *Client) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}

	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}

// FetchVehicles fetches and decodes a vehicle positions feed
func (c *Client) FetchVehicles(ctx context.Context, urlOrPath string) ([]Vehicle, error) {
	data, err := c.Fetch(ctx, urlOrPath)
	if err != nil {
		return nil, fmt.Errorf("vehicle positions: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return DecodeVehicles(data)
}
