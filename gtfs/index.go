package gtfs

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"sort"

	"github.com/theoremus-urban-solutions/transit-geometry/config"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// NewNetworkFromConfig loads the feed named by cfg.StaticURL, a local path or
// an http(s) URL. When cfg.CachePath is set, a cached network is used if
// present and written after a fresh load otherwise.
func NewNetworkFromConfig(ctx context.Context, cfg config.GTFSConfig) (network.Network, error) {
	if cfg.CachePath != "" {
		if n, err := DeserializeNetworkFromFile(cfg.CachePath); err == nil {
			log.Printf("[gtfs] Loaded network from cache %s (%d stations, %d routes)", cfg.CachePath, len(n.Stops), len(n.Routes))
			return n, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[gtfs] Ignoring unreadable cache %s: %v", cfg.CachePath, err)
		}
	}
	if cfg.StaticURL == "" {
		return network.Network{}, errors.New("gtfs staticURL is not configured")
	}

	data, err := fetchZip(ctx, http.DefaultClient, cfg.StaticURL)
	if err != nil {
		return network.Network{}, err
	}
	n, err := NewNetworkFromBytes(data, Options{AgencyID: cfg.AgencyID, RouteType: cfg.RouteType})
	if err != nil {
		return network.Network{}, err
	}
	if cfg.CachePath != "" {
		if err := SerializeNetworkToFile(n, cfg.CachePath); err != nil {
			log.Printf("[gtfs] Failed to write cache %s: %v", cfg.CachePath, err)
		}
	}
	return n, nil
}

// NewNetworkFromBytes derives a network from raw GTFS zip bytes
func NewNetworkFromBytes(data []byte, opts Options) (network.Network, error) {
	f, err := readFeedBytes(data)
	if err != nil {
		return network.Network{}, err
	}
	return f.network(opts), nil
}

// NewNetworkFromReader derives a network from a GTFS zip of the given size
func NewNetworkFromReader(r io.ReaderAt, size int64, opts Options) (network.Network, error) {
	f, err := readFeed(r, size)
	if err != nil {
		return network.Network{}, err
	}
	return f.network(opts), nil
}

// stationOf maps a stop to the station it belongs to
func (f *feed) stationOf(stopID string) string {
	if s, ok := f.stops[stopID]; ok && s.parent != "" {
		return s.parent
	}
	return stopID
}

// tripStations returns the stations a trip serves in order, collapsing
// consecutive platforms of one station
func (f *feed) tripStations(tripID string) []string {
	var out []string
	for _, stopID := range f.tripStops[tripID] {
		st := f.stationOf(stopID)
		if len(out) > 0 && out[len(out)-1] == st {
			continue
		}
		out = append(out, st)
	}
	return out
}

func (f *feed) keepRoute(r routeRow, opts Options) bool {
	agency := opts.AgencyID
	if agency != "" && r.agencyID != "" && r.agencyID != agency {
		return false
	}
	if opts.RouteType != nil && (!r.hasType || r.typ != *opts.RouteType) {
		return false
	}
	return true
}

// network derives stations, routes and per-route sequences from the feed
func (f *feed) network(opts Options) network.Network {
	tripsByRoute := map[string][]string{}
	for trip, route := range f.tripRoute {
		tripsByRoute[route] = append(tripsByRoute[route], trip)
	}

	var routes []network.Route
	memberships := map[string][]network.RouteMembership{}
	for _, r := range f.routes {
		if !f.keepRoute(r, opts) {
			continue
		}
		routes = append(routes, network.Route{ID: r.id, Color: r.color})
		trips := tripsByRoute[r.id]
		sort.Strings(trips)
		for _, m := range f.routeSequences(r.id, trips) {
			memberships[m.station] = append(memberships[m.station], network.RouteMembership{
				RouteID:  r.id,
				Sequence: network.Seq(m.seq),
			})
		}
	}

	stationIDs := make([]string, 0, len(memberships))
	for id := range memberships {
		stationIDs = append(stationIDs, id)
	}
	sort.Strings(stationIDs)

	centers := f.barycenters()
	stops := make([]network.Stop, 0, len(stationIDs))
	for _, id := range stationIDs {
		c := centers[id]
		stops = append(stops, network.Stop{
			ID:          id,
			Name:        f.stationName(id),
			Lat:         c.lat,
			Lon:         c.lon,
			Memberships: memberships[id],
		})
	}
	log.Printf("[gtfs] Derived %d stations and %d routes", len(stops), len(routes))
	return network.Network{Stops: stops, Routes: routes}
}

type stationSeq struct {
	station string
	seq     float64
}

// routeSequences numbers the stations of one route. trips must be sorted.
func (f *feed) routeSequences(routeID string, trips []string) []stationSeq {
	var rep []string
	for _, trip := range trips {
		if st := f.tripStations(trip); len(st) > len(rep) {
			rep = st
		}
	}
	if len(rep) == 0 {
		return nil
	}

	pos := make(map[string]int, len(rep))
	var out []stationSeq
	for _, st := range rep {
		if _, ok := pos[st]; ok {
			continue
		}
		pos[st] = len(out) + 1
		out = append(out, stationSeq{station: st, seq: float64(pos[st])})
	}

	skipped := map[string]bool{}
	encoded := false
	for _, trip := range trips {
		p, next := 0, 0
		var run []string
		inRun := map[string]bool{}
		for _, st := range f.tripStations(trip) {
			if i, ok := pos[st]; ok {
				if len(run) > 0 && !encoded {
					next = i
					break
				}
				p = i
				continue
			}
			if encoded {
				skipped[st] = true
				continue
			}
			if !inRun[st] {
				inRun[st] = true
				run = append(run, st)
			}
		}
		if len(run) == 0 || encoded {
			continue
		}
		// a trip running against the representative one meets the run's
		// stations in reverse
		if p > 0 && next > 0 && next < p {
			p = next
			for i, j := 0, len(run)-1; i < j; i, j = i+1, j-1 {
				run[i], run[j] = run[j], run[i]
			}
		}
		c := float64(len(run))
		for j, st := range run {
			out = append(out, stationSeq{station: st, seq: float64(p) + 1 + float64(j+1)/(c+1)})
			pos[st] = -1
		}
		encoded = true
	}
	if len(skipped) > 0 {
		log.Printf("[gtfs] Route %s: %d stations outside the main line and first branch were not encoded", routeID, len(skipped))
	}
	return out
}

type center struct {
	lat, lon float64
	n        int
}

// barycenters averages platform coordinates per station. Stations without
// located platforms fall back to their own row.
func (f *feed) barycenters() map[string]center {
	out := map[string]center{}
	for _, s := range f.stops {
		if s.parent == "" || !s.hasCoord {
			continue
		}
		c := out[s.parent]
		c.lat += s.lat
		c.lon += s.lon
		c.n++
		out[s.parent] = c
	}
	for id, c := range out {
		c.lat /= float64(c.n)
		c.lon /= float64(c.n)
		out[id] = c
	}
	for _, s := range f.stops {
		if _, ok := out[s.id]; ok || !s.hasCoord {
			continue
		}
		if s.parent == "" {
			out[s.id] = center{lat: s.lat, lon: s.lon, n: 1}
		}
	}
	return out
}

func (f *feed) stationName(id string) string {
	if s, ok := f.stops[id]; ok && s.name != "" {
		return s.name
	}
	// No parent row: use the named platform with the lowest stop_id
	var name, from string
	for _, s := range f.stops {
		if s.parent == id && s.name != "" && (from == "" || s.id < from) {
			name, from = s.name, s.id
		}
	}
	return name
}
