package geometry

import (
	"encoding/json"
	"testing"
)

func TestRouteGeometry_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		geom RouteGeometry
		want string
	}{
		{
			name: "empty",
			geom: EmptyGeometry("R"),
			want: `{"mainPath":[]}`,
		},
		{
			name: "main only",
			geom: RouteGeometry{MainPath: []Entry{{Coordinate: Coordinate{Lat: 1, Lon: 2}}, {Coordinate: Coordinate{Lat: 3, Lon: 4}}}},
			want: `{"mainPath":[[1,2],[3,4]]}`,
		},
		{
			name: "single branch stop omits the segment",
			geom: RouteGeometry{
				MainPath:  []Entry{{Coordinate: Coordinate{Lat: 1, Lon: 1}}},
				Branch:    []Entry{{Coordinate: Coordinate{Lat: 2, Lon: 2}}},
				EntryLink: &Link{From: Coordinate{Lat: 1, Lon: 1}, To: Coordinate{Lat: 2, Lon: 2}},
			},
			want: `{"mainPath":[[1,1]],"entryLink":[[1,1],[2,2]]}`,
		},
		{
			name: "full branch",
			geom: RouteGeometry{
				MainPath:  []Entry{{Coordinate: Coordinate{Lat: 0, Lon: 0}}},
				Branch:    []Entry{{Coordinate: Coordinate{Lat: 1, Lon: 1}}, {Coordinate: Coordinate{Lat: 2, Lon: 2}}},
				EntryLink: &Link{From: Coordinate{Lat: 0, Lon: 0}, To: Coordinate{Lat: 1, Lon: 1}},
				ExitLink:  &Link{From: Coordinate{Lat: 2, Lon: 2}, To: Coordinate{Lat: 3, Lon: 3}},
			},
			want: `{"mainPath":[[0,0]],"branchSegment":[[1,1],[2,2]],"entryLink":[[0,0],[1,1]],"exitLink":[[2,2],[3,3]]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.geom)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("got %s, want %s", b, tt.want)
			}
		})
	}
}

func TestCoordinate_UnmarshalJSON(t *testing.T) {
	var c Coordinate
	if err := json.Unmarshal([]byte(`[48.8, 2.3]`), &c); err != nil || c.Lat != 48.8 || c.Lon != 2.3 {
		t.Errorf("unmarshal = %+v, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`[1]`), &c); err == nil {
		t.Error("expected error for a single value")
	}
}

func TestPolylines(t *testing.T) {
	g := RouteGeometry{
		MainPath: []Entry{{Coordinate: Coordinate{Lat: 0}}, {Coordinate: Coordinate{Lat: 1}}},
		Branch:   []Entry{{Coordinate: Coordinate{Lat: 5}}},
		ExitLink: &Link{From: Coordinate{Lat: 5}, To: Coordinate{Lat: 1}},
	}
	lines := g.Polylines()
	if len(lines) != 2 {
		t.Fatalf("got %d polylines, want main path and exit link", len(lines))
	}
	if Strategy(42).String() != "none" || StrategyTour.String() != "tour" {
		t.Error("unexpected strategy names")
	}
}

func TestWarningAggregator(t *testing.T) {
	w := NewWarningAggregator()
	if !w.Empty() {
		t.Fatal("new aggregator should be empty")
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		w.Add(WarningUnknownRoute, id)
	}
	if w.Count(WarningUnknownRoute) != 4 {
		t.Errorf("count = %d, want 4", w.Count(WarningUnknownRoute))
	}
	if ex := w.Examples(WarningUnknownRoute); len(ex) != 3 {
		t.Errorf("examples = %v, want 3 entries", ex)
	}
	if w.Count(WarningIsolatedBranchStop) != 0 || w.Examples(WarningIsolatedBranchStop) != nil {
		t.Error("unrecorded warning type should be zero")
	}
	w.LogAll("geometry", "test")
}
