package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/transit-geometry/config"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// DateTimeLayout is the datetime format expected in path and tree URLs
const DateTimeLayout = "2006-01-02 15:04:05"

const defaultTimeout = 30 * time.Second

// Client talks to the routing backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for cfg.BaseURL. A zero timeout uses 30s.
func NewClient(cfg config.BackendConfig) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// get performs a GET on path and returns the body of a 200 response
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("backend baseURL is not configured")
	}
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}

// FetchStations returns the station collection
func (c *Client) FetchStations(ctx context.Context) ([]network.Stop, error) {
	body, err := c.get(ctx, "/stations")
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	stops, err := network.DecodeStops(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	return stops, nil
}

// FetchRoutes returns the route collection
func (c *Client) FetchRoutes(ctx context.Context) ([]network.Route, error) {
	body, err := c.get(ctx, "/routes")
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}
	routes, err := network.DecodeRoutes(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}
	return routes, nil
}

// FetchNetwork fetches stations and routes
func (c *Client) FetchNetwork(ctx context.Context) (network.Network, error) {
	stops, err := c.FetchStations(ctx)
	if err != nil {
		return network.Network{}, err
	}
	routes, err := c.FetchRoutes(ctx)
	if err != nil {
		return network.Network{}, err
	}
	return network.Network{Stops: stops, Routes: routes}, nil
}

// FetchShortestPath asks for the fastest journey between two stations.
// forward selects departure-time (true) or arrival-time (false) semantics for at.
func (c *Client) FetchShortestPath(ctx context.Context, forward bool, from, to string, at time.Time) (ShortestPath, error) {
	path := "/shortest_path/" + strings.Join([]string{
		pythonBool(forward),
		url.PathEscape(from),
		url.PathEscape(to),
		url.PathEscape(at.Format(DateTimeLayout)),
	}, "/")
	body, err := c.get(ctx, path)
	if err != nil {
		return ShortestPath{}, fmt.Errorf("shortest path: %w", err)
	}
	var out ShortestPath
	if err := json.Unmarshal(body, &out); err != nil {
		return ShortestPath{}, fmt.Errorf("shortest path: %w", err)
	}
	return out, nil
}

// FetchSpanningTree asks for the minimum spanning tree rooted at station
func (c *Client) FetchSpanningTree(ctx context.Context, station string, at time.Time) (SpanningTree, error) {
	path := "/prim_spanning_tree/" + url.PathEscape(station) + "/" + url.PathEscape(at.Format(DateTimeLayout))
	body, err := c.get(ctx, path)
	if err != nil {
		return SpanningTree{}, fmt.Errorf("spanning tree: %w", err)
	}
	var out SpanningTree
	if err := json.Unmarshal(body, &out); err != nil {
		return SpanningTree{}, fmt.Errorf("spanning tree: %w", err)
	}
	return out, nil
}

// pythonBool renders b the way the backend parses path booleans
func pythonBool(b bool) string {
	s := strconv.FormatBool(b)
	return strings.ToUpper(s[:1]) + s[1:]
}
