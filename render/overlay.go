package render

import (
	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// PathPolyline returns the coordinates of the given stations in order.
// Stations missing from the network are skipped.
func PathPolyline(n network.Network, stationIDs []string) []geometry.Coordinate {
	idx := n.StopIndex()
	out := make([]geometry.Coordinate, 0, len(stationIDs))
	for _, id := range stationIDs {
		if s, ok := idx[id]; ok {
			out = append(out, geometry.Coordinate{Lat: s.Lat, Lon: s.Lon})
		}
	}
	return out
}

// SpanningTreeSegments returns one two-point segment per tree edge. Edges
// with an endpoint missing from the network are skipped.
func SpanningTreeSegments(n network.Network, pairs [][2]string) []geometry.Link {
	idx := n.StopIndex()
	out := make([]geometry.Link, 0, len(pairs))
	for _, p := range pairs {
		from, ok := idx[p[0]]
		if !ok {
			continue
		}
		to, ok := idx[p[1]]
		if !ok {
			continue
		}
		out = append(out, geometry.Link{
			From: geometry.Coordinate{Lat: from.Lat, Lon: from.Lon},
			To:   geometry.Coordinate{Lat: to.Lat, Lon: to.Lon},
		})
	}
	return out
}

// TreeFeatureCollection renders a spanning tree overlay, one LineString per
// resolved edge
func TreeFeatureCollection(n network.Network, pairs [][2]string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range SpanningTreeSegments(n, pairs) {
		fc.Append(lineFeature([]geometry.Coordinate{l.From, l.To}, "", PartTree, PathColor))
	}
	return fc
}
