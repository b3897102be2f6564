package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/theoremus-urban-solutions/transit-geometry/backend"
	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/gtfsrt"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
	"github.com/theoremus-urban-solutions/transit-geometry/render"
)

const requestTimeout = 30 * time.Second

type healthResponse struct {
	Status    string    `json:"status"`
	Network   string    `json:"network"`
	Source    string    `json:"source"`
	Stations  int       `json:"stations"`
	Routes    int       `json:"routes"`
	Timestamp time.Time `json:"timestamp"`
}

type vehiclesResponse struct {
	Count    int              `json:"count"`
	Vehicles []gtfsrt.Vehicle `json:"vehicles"`
}

type pathResponse struct {
	Stations    []string              `json:"stations"`
	Polyline    []geometry.Coordinate `json:"polyline"`
	Stops       []backend.PathStop    `json:"stops,omitempty"`
	ArrivalDate string                `json:"arrival_date,omitempty"`
}

type treeResponse struct {
	Cost     float64         `json:"cost"`
	Connexe  bool            `json:"connexe"`
	Segments []geometry.Link `json:"segments"`
}

// loadNetwork fetches the current network, replying 502 on failure
func (s *Server) loadNetwork(w http.ResponseWriter, r *http.Request) (network.Network, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	n, err := s.opts.Provider.Network(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load network", err)
		return network.Network{}, false
	}
	return n, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	resp := healthResponse{
		Status:    "ok",
		Network:   s.opts.NetworkName,
		Source:    s.opts.Provider.Source(),
		Timestamp: time.Now().UTC(),
	}
	n, err := s.opts.Provider.Network(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Network unavailable", err)
		return
	}
	resp.Stations, resp.Routes = len(n.Stops), len(n.Routes)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	stops := n.Stops
	if stops == nil {
		stops = []network.Stop{}
	}
	writeJSON(w, http.StatusOK, stops)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	routes := n.Routes
	if routes == nil {
		routes = []network.Route{}
	}
	writeJSON(w, http.StatusOK, routes)
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	body, err := render.BuildJSON(s.geometryFor(n))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render geometry", err)
		return
	}
	writeRaw(w, "application/json", body)
}

func (s *Server) handleRouteGeometry(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeID")
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	g, found := s.geometryFor(n)[routeID]
	if !found {
		writeError(w, http.StatusNotFound, "Unknown route", fmt.Errorf("route %s is not part of network %s", routeID, s.opts.NetworkName))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGeometryGeoJSON(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	fc := render.FeatureCollection(n, s.geometryFor(n), s.opts.FallbackColor)
	body, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render GeoJSON", err)
		return
	}
	writeRaw(w, "application/geo+json", body)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if s.opts.Vehicles == nil {
		writeError(w, http.StatusServiceUnavailable, "Vehicle positions are not configured", nil)
		return
	}
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	vehicles, err := s.opts.Vehicles.Vehicles(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to fetch vehicle positions", err)
		return
	}
	warnings := geometry.NewWarningAggregator()
	kept := gtfsrt.FilterKnownRoutes(vehicles, n.Routes, warnings)
	warnings.LogAll("gtfsrt", s.opts.NetworkName)
	writeJSON(w, http.StatusOK, vehiclesResponse{Count: len(kept), Vehicles: kept})
}

// resolvePath reads the stations of a path, given either explicitly
// (?stations=a,b,c) or as a backend query (?from=&to=&at=&forward=)
func (s *Server) resolvePath(w http.ResponseWriter, r *http.Request) (pathResponse, network.Network, bool) {
	q := r.URL.Query()
	var resp pathResponse
	switch {
	case q.Get("stations") != "":
		for _, id := range strings.Split(q.Get("stations"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				resp.Stations = append(resp.Stations, id)
			}
		}
	case q.Get("from") != "" && q.Get("to") != "":
		if s.opts.Router == nil {
			writeError(w, http.StatusServiceUnavailable, "Routing backend is not configured", nil)
			return resp, network.Network{}, false
		}
		at, err := parseAt(q.Get("at"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at parameter", err)
			return resp, network.Network{}, false
		}
		forward := true
		if f := q.Get("forward"); f != "" {
			if forward, err = strconv.ParseBool(f); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid forward parameter", err)
				return resp, network.Network{}, false
			}
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		p, err := s.opts.Router.FetchShortestPath(ctx, forward, q.Get("from"), q.Get("to"), at)
		if err != nil {
			writeError(w, http.StatusBadGateway, "Failed to fetch shortest path", err)
			return resp, network.Network{}, false
		}
		resp.Stations, resp.Stops, resp.ArrivalDate = p.StationIDs(), p.Stops, p.ArrivalDate
	default:
		writeError(w, http.StatusBadRequest, "Missing stations or from/to parameters", nil)
		return resp, network.Network{}, false
	}

	n, ok := s.loadNetwork(w, r)
	if !ok {
		return resp, network.Network{}, false
	}
	if resp.Stations == nil {
		resp.Stations = []string{}
	}
	return resp, n, true
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	resp, n, ok := s.resolvePath(w, r)
	if !ok {
		return
	}
	resp.Polyline = render.PathPolyline(n, resp.Stations)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePathGeoJSON(w http.ResponseWriter, r *http.Request) {
	resp, n, ok := s.resolvePath(w, r)
	if !ok {
		return
	}
	body, err := render.PathFeatureCollection(n, resp.Stations).MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render GeoJSON", err)
		return
	}
	writeRaw(w, "application/geo+json", body)
}

// resolveTree asks the backend for the spanning tree of ?station=&at=
func (s *Server) resolveTree(w http.ResponseWriter, r *http.Request) (backend.SpanningTree, network.Network, bool) {
	if s.opts.Router == nil {
		writeError(w, http.StatusServiceUnavailable, "Routing backend is not configured", nil)
		return backend.SpanningTree{}, network.Network{}, false
	}
	q := r.URL.Query()
	station := q.Get("station")
	if station == "" {
		writeError(w, http.StatusBadRequest, "Missing station parameter", nil)
		return backend.SpanningTree{}, network.Network{}, false
	}
	at, err := parseAt(q.Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at parameter", err)
		return backend.SpanningTree{}, network.Network{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tree, err := s.opts.Router.FetchSpanningTree(ctx, station, at)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to fetch spanning tree", err)
		return backend.SpanningTree{}, network.Network{}, false
	}
	n, ok := s.loadNetwork(w, r)
	if !ok {
		return backend.SpanningTree{}, network.Network{}, false
	}
	return tree, n, true
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, n, ok := s.resolveTree(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Cost:     tree.Cost,
		Connexe:  tree.Connexe,
		Segments: render.SpanningTreeSegments(n, tree.Pairs()),
	})
}

func (s *Server) handleTreeGeoJSON(w http.ResponseWriter, r *http.Request) {
	tree, n, ok := s.resolveTree(w, r)
	if !ok {
		return
	}
	body, err := render.TreeFeatureCollection(n, tree.Pairs()).MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render GeoJSON", err)
		return
	}
	writeRaw(w, "application/geo+json", body)
}

// parseAt reads a backend datetime or an RFC 3339 timestamp, defaulting to now
func parseAt(v string) (time.Time, error) {
	if v == "" {
		return time.Now(), nil
	}
	at, err := time.ParseInLocation(backend.DateTimeLayout, v, time.Local)
	if err == nil {
		return at, nil
	}
	if at, rfcErr := time.Parse(time.RFC3339, v); rfcErr == nil {
		return at, nil
	}
	return time.Time{}, err
}
