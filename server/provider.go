package server

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"github.com/theoremus-urban-solutions/transit-geometry/backend"
	"github.com/theoremus-urban-solutions/transit-geometry/gtfsrt"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
	"github.com/theoremus-urban-solutions/transit-geometry/store"
)

// Provider supplies the current network
type Provider interface {
	Network(ctx context.Context) (network.Network, error)
	Source() string
}

// Router answers shortest path and spanning tree queries
type Router interface {
	FetchShortestPath(ctx context.Context, forward bool, from, to string, at time.Time) (backend.ShortestPath, error)
	FetchSpanningTree(ctx context.Context, station string, at time.Time) (backend.SpanningTree, error)
}

// VehicleSource supplies realtime vehicle positions
type VehicleSource interface {
	Vehicles(ctx context.Context) ([]gtfsrt.Vehicle, error)
}

// BackendProvider fetches the network from the routing backend on every call
type BackendProvider struct {
	Client *backend.Client
}

func (p BackendProvider) Network(ctx context.Context) (network.Network, error) {
	return p.Client.FetchNetwork(ctx)
}

func (p BackendProvider) Source() string { return "backend" }

// StaticProvider serves a network loaded once at startup
type StaticProvider struct {
	Net  network.Network
	From string
}

func (p StaticProvider) Network(context.Context) (network.Network, error) { return p.Net, nil }

func (p StaticProvider) Source() string {
	if p.From == "" {
		return "static"
	}
	return p.From
}

// StoreProvider serves the latest snapshot of a named network
type StoreProvider struct {
	Store *store.Store
	Name  string
}

func (p StoreProvider) Network(ctx context.Context) (network.Network, error) {
	snap, err := p.Store.LatestNetwork(ctx, p.Name)
	if err != nil {
		return network.Network{}, fmt.Errorf("store: %w", err)
	}
	return snap.Network, nil
}

func (p StoreProvider) Source() string { return "store" }

// FeedVehicleSource reads a GTFS-RT vehicle positions feed. Positions are
// reused for MaxAge between reads.
type FeedVehicleSource struct {
	client *gtfsrt.Client
	url    string
	maxAge time.Duration
	cache  gcache.Cache
}

// NewFeedVehicleSource creates a source for url. A non-positive maxAge reads
// the feed on every call.
func NewFeedVehicleSource(client *gtfsrt.Client, url string, maxAge time.Duration) *FeedVehicleSource {
	v := &FeedVehicleSource{client: client, url: url, maxAge: maxAge}
	if maxAge > 0 {
		v.cache = gcache.New(1).Simple().Build()
	}
	return v
}

func (v *FeedVehicleSource) Vehicles(ctx context.Context) ([]gtfsrt.Vehicle, error) {
	if v.cache != nil {
		if cached, err := v.cache.Get(v.url); err == nil {
			return cached.([]gtfsrt.Vehicle), nil
		}
	}
	vehicles, err := v.client.FetchVehicles(ctx, v.url)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		_ = v.cache.SetWithExpire(v.url, vehicles, v.maxAge)
	}
	return vehicles, nil
}
