package render

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

func testNetwork() network.Network {
	on := func(route string, seq float64) []network.RouteMembership {
		return []network.RouteMembership{{RouteID: route, Sequence: network.Seq(seq)}}
	}
	return network.Network{
		Stops: []network.Stop{
			{ID: "A", Name: "Alpha", Lat: 0, Lon: 0, Memberships: on("L1", 1)},
			{ID: "B", Name: "Bravo", Lat: 1, Lon: 1, Memberships: on("L1", 2)},
			{ID: "C", Name: "Charlie", Lat: 2, Lon: 2, Memberships: on("L1", 3)},
			{ID: "D", Name: "Delta", Lat: 1.5, Lon: 3, Memberships: on("L1", 2.5)},
			{ID: "E", Name: "Echo", Lat: 1.7, Lon: 3.2, Memberships: on("L1", 2.7)},
		},
		Routes: []network.Route{{ID: "L1", Color: "ffcd00"}, {ID: "L2"}},
	}
}

func TestBuildJSON(t *testing.T) {
	n := testNetwork()
	geoms := geometry.NewService(0).ComputeNetwork(n)

	b, err := BuildJSON(geoms)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"L1": {
			"mainPath": [[0,0],[1,1],[2,2]],
			"branchSegment": [[1.5,3],[1.7,3.2]],
			"entryLink": [[0,0],[1.5,3]],
			"exitLink": [[1.7,3.2],[2,2]]
		},
		"L2": {"mainPath": []}
	}`, string(b))

	b, err = BuildJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestResolveColor(t *testing.T) {
	routes := []network.Route{{ID: "L1", Color: "ffcd00"}, {ID: "L2"}, {ID: "L3", Color: "#12345"}, {ID: "L4", Color: "f0a"}, {ID: "L5", Color: "#00ff00"}}
	tests := []struct {
		name     string
		routeID  string
		fallback string
		want     string
	}{
		{"known route", "L1", "FFFFFF", "#FFCD00"},
		{"route without color", "L2", "FFFFFF", "#FFFFFF"},
		{"invalid color", "L3", "#000000", "#000000"},
		{"short color", "L4", "FFFFFF", "#FF00AA"},
		{"color with hash", "L5", "FFFFFF", "#00FF00"},
		{"unknown route", "L9", "abcdef", "#ABCDEF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColor(routes, tt.routeID, tt.fallback))
		})
	}
}

func TestFeatureCollection(t *testing.T) {
	n := testNetwork()
	geoms := geometry.NewService(0).ComputeNetwork(n)

	fc := FeatureCollection(n, geoms, "FFFFFF")
	// main, branch, entry link, exit link for L1; nothing drawable for L2; five stations
	require.Len(t, fc.Features, 9)

	var parts []string
	for _, f := range fc.Features[:4] {
		parts = append(parts, f.Properties.MustString("part"))
		assert.Equal(t, "L1", f.Properties.MustString("route_id"))
		assert.Equal(t, "#FFCD00", f.Properties.MustString("stroke"))
	}
	assert.Equal(t, []string{PartMain, PartBranch, PartEntryLink, PartExitLink}, parts)

	main, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}, {2, 2}}, main)

	station := fc.Features[7]
	assert.Equal(t, PartStation, station.Properties.MustString("part"))
	assert.Equal(t, "D", station.Properties.MustString("parent_station"))
	assert.Equal(t, orb.Point{3, 1.5}, station.Geometry, "GeoJSON points are lon,lat")

	b, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"FeatureCollection"`)
}

func TestPathPolyline(t *testing.T) {
	n := testNetwork()
	got := PathPolyline(n, []string{"A", "ghost", "C"})
	assert.Equal(t, []geometry.Coordinate{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 2}}, got)
	assert.Empty(t, PathPolyline(n, nil))

	fc := PathFeatureCollection(n, []string{"A", "ghost", "C"})
	require.Len(t, fc.Features, 3)
	assert.Equal(t, PathColor, fc.Features[0].Properties.MustString("stroke"))
	length := fc.Features[0].Properties.MustFloat64("length_m")
	assert.Greater(t, length, 300000.0)
	assert.Less(t, length, 330000.0)

	single := PathFeatureCollection(n, []string{"A"})
	assert.Len(t, single.Features, 1, "a single station has no drawable polyline")
}

func TestSpanningTreeSegments(t *testing.T) {
	n := testNetwork()
	got := SpanningTreeSegments(n, [][2]string{{"A", "B"}, {"B", "ghost"}, {"C", "D"}})
	require.Len(t, got, 2)
	assert.Equal(t, geometry.Link{From: geometry.Coordinate{Lat: 0, Lon: 0}, To: geometry.Coordinate{Lat: 1, Lon: 1}}, got[0])
	assert.Equal(t, geometry.Coordinate{Lat: 1.5, Lon: 3}, got[1].To)

	fc := TreeFeatureCollection(n, [][2]string{{"A", "B"}, {"B", "ghost"}})
	require.Len(t, fc.Features, 1)
	assert.Equal(t, PartTree, fc.Features[0].Properties.MustString("part"))
}
