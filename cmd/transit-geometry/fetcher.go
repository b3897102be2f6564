package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// fetcher reads station and route documents from URLs or local files.
// This is CLI-specific logic and is not part of the core library.
type fetcher struct {
	httpClient *http.Client
}

// newFetcher creates a new fetcher with the given timeout
func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// fetch returns the body of a URL or the content of a local file
func (f *fetcher) fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, fmt.Errorf("empty source")
	}

	// Check if it's a local file path
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}

// fetchNetwork reads the station and route collections
func (f *fetcher) fetchNetwork(ctx context.Context, stationsPath, routesPath string) (network.Network, error) {
	sb, err := f.fetch(ctx, stationsPath)
	if err != nil {
		return network.Network{}, fmt.Errorf("stations: %w", err)
	}
	stops, err := network.DecodeStops(bytes.NewReader(sb))
	if err != nil {
		return network.Network{}, fmt.Errorf("stations: %w", err)
	}

	rb, err := f.fetch(ctx, routesPath)
	if err != nil {
		return network.Network{}, fmt.Errorf("routes: %w", err)
	}
	routes, err := network.DecodeRoutes(bytes.NewReader(rb))
	if err != nil {
		return network.Network{}, fmt.Errorf("routes: %w", err)
	}
	return network.Network{Stops: stops, Routes: routes}, nil
}
