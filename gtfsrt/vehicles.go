package gtfsrt

import (
	"fmt"
	"sort"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// Vehicle is one positioned vehicle of a GTFS-RT feed
type Vehicle struct {
	ID        string   `json:"id"`
	TripID    string   `json:"trip_id,omitempty"`
	RouteID   string   `json:"route_id"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Bearing   *float64 `json:"bearing,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// DecodeVehicles parses a FeedMessage and returns its positioned vehicles,
// sorted by id. Entities without a position are skipped. A vehicle without
// its own timestamp takes the feed header timestamp.
func DecodeVehicles(data []byte) ([]Vehicle, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("failed to decode GTFS-RT feed: %w", err)
	}

	headerTS := int64(fm.GetHeader().GetTimestamp())
	out := make([]Vehicle, 0, len(fm.GetEntity()))
	for _, e := range fm.GetEntity() {
		vp := e.GetVehicle()
		if vp == nil || vp.GetPosition() == nil {
			continue
		}
		pos := vp.GetPosition()
		v := Vehicle{
			ID:        vp.GetVehicle().GetId(),
			TripID:    vp.GetTrip().GetTripId(),
			RouteID:   vp.GetTrip().GetRouteId(),
			Lat:       float64(pos.GetLatitude()),
			Lon:       float64(pos.GetLongitude()),
			Timestamp: int64(vp.GetTimestamp()),
		}
		if v.ID == "" {
			v.ID = e.GetId()
		}
		if pos.Bearing != nil {
			b := float64(pos.GetBearing())
			v.Bearing = &b
		}
		if v.Timestamp == 0 {
			v.Timestamp = headerTS
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FilterKnownRoutes keeps the vehicles whose route is in routes. Dropped
// vehicles are recorded in warnings when it is not nil.
func FilterKnownRoutes(vehicles []Vehicle, routes []network.Route, warnings *geometry.WarningAggregator) []Vehicle {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r.ID] = struct{}{}
	}
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if _, ok := known[v.RouteID]; !ok {
			if warnings != nil {
				warnings.Add(geometry.WarningUnknownVehicleRoute, v.RouteID+"@"+v.ID)
			}
			continue
		}
		out = append(out, v)
	}
	return out
}
