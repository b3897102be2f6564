package render

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// Feature parts
const (
	PartMain      = "main"
	PartBranch    = "branch"
	PartEntryLink = "entry_link"
	PartExitLink  = "exit_link"
	PartStation   = "station"
	PartPath      = "path"
	PartTree      = "tree"
)

// PathColor strokes shortest path overlays
const PathColor = "#FF0000"

func point(c geometry.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func lineString(coords []geometry.Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = point(c)
	}
	return ls
}

func lineFeature(coords []geometry.Coordinate, routeID, part, stroke string) *geojson.Feature {
	ls := lineString(coords)
	f := geojson.NewFeature(ls)
	f.Properties["length_m"] = math.Round(geo.LengthHaversine(ls))
	if routeID != "" {
		f.Properties["route_id"] = routeID
	}
	f.Properties["part"] = part
	f.Properties["stroke"] = stroke
	return f
}

// FeatureCollection renders every drawable polyline of every route as a
// LineString feature, followed by one Point feature per station. Routes are
// emitted in id order.
func FeatureCollection(n network.Network, geometries map[string]geometry.RouteGeometry, fallback string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	ids := make([]string, 0, len(geometries))
	for id := range geometries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		g := geometries[id]
		stroke := ResolveColor(n.Routes, id, fallback)
		if len(g.MainPath) > 1 {
			fc.Append(lineFeature(g.MainCoordinates(), id, PartMain, stroke))
		}
		if seg := g.BranchSegment(); seg != nil {
			fc.Append(lineFeature(seg, id, PartBranch, stroke))
		}
		if g.EntryLink != nil {
			fc.Append(lineFeature([]geometry.Coordinate{g.EntryLink.From, g.EntryLink.To}, id, PartEntryLink, stroke))
		}
		if g.ExitLink != nil {
			fc.Append(lineFeature([]geometry.Coordinate{g.ExitLink.From, g.ExitLink.To}, id, PartExitLink, stroke))
		}
	}

	for _, s := range n.Stops {
		f := geojson.NewFeature(orb.Point{s.Lon, s.Lat})
		f.Properties["part"] = PartStation
		f.Properties["parent_station"] = s.ID
		f.Properties["stop_name"] = s.Name
		fc.Append(f)
	}
	return fc
}

// PathFeatureCollection renders a shortest path overlay: the polyline when it
// has at least two points, plus a Point per resolved station
func PathFeatureCollection(n network.Network, stationIDs []string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	coords := PathPolyline(n, stationIDs)
	if len(coords) > 1 {
		fc.Append(lineFeature(coords, "", PartPath, PathColor))
	}
	idx := n.StopIndex()
	for _, id := range stationIDs {
		s, ok := idx[id]
		if !ok {
			continue
		}
		f := geojson.NewFeature(orb.Point{s.Lon, s.Lat})
		f.Properties["part"] = PartStation
		f.Properties["parent_station"] = s.ID
		f.Properties["stop_name"] = s.Name
		fc.Append(f)
	}
	return fc
}
