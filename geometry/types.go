package geometry

import "encoding/json"

// Strategy selects how a route's stops are ordered
type Strategy int

const (
	// StrategyNone marks a route without memberships
	StrategyNone Strategy = iota
	// StrategySequenced orders stops by stop_sequence
	StrategySequenced
	// StrategyTour orders stops by a nearest-neighbor walk
	StrategyTour
)

func (s Strategy) String() string {
	switch s {
	case StrategySequenced:
		return "sequenced"
	case StrategyTour:
		return "tour"
	default:
		return "none"
	}
}

// Membership is one stop's participation in a route
type Membership struct {
	StopID     string
	Coordinate Coordinate
	Sequence   float64
}

// Entry is a stop placed on an output polyline. Sequence is the classified
// stop_sequence for sequenced routes and the visiting rank for tours.
type Entry struct {
	StopID     string
	Coordinate Coordinate
	Sequence   float64
}

// Link is a two-point edge attaching a branch end to the main path
type Link struct {
	From Coordinate
	To   Coordinate
}

func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Coordinate{l.From, l.To})
}

// RouteGeometry is the reconstructed drawing of one route
type RouteGeometry struct {
	RouteID   string
	Strategy  Strategy
	MainPath  []Entry
	Branch    []Entry
	EntryLink *Link
	ExitLink  *Link
}

// EmptyGeometry returns the geometry of a route with no memberships
func EmptyGeometry(routeID string) RouteGeometry {
	return RouteGeometry{RouteID: routeID, Strategy: StrategyNone, MainPath: []Entry{}}
}

// MainCoordinates returns the main path as coordinates, never nil
func (g RouteGeometry) MainCoordinates() []Coordinate {
	return coordinates(g.MainPath)
}

// BranchSegment returns the branch polyline, or nil when it has fewer than two
// points and is therefore not drawable
func (g RouteGeometry) BranchSegment() []Coordinate {
	if len(g.Branch) < 2 {
		return nil
	}
	return coordinates(g.Branch)
}

// Polylines returns every drawable polyline: main path, branch segment and
// link edges, skipping anything with fewer than two points
func (g RouteGeometry) Polylines() [][]Coordinate {
	var out [][]Coordinate
	if len(g.MainPath) > 1 {
		out = append(out, g.MainCoordinates())
	}
	if seg := g.BranchSegment(); seg != nil {
		out = append(out, seg)
	}
	if g.EntryLink != nil {
		out = append(out, []Coordinate{g.EntryLink.From, g.EntryLink.To})
	}
	if g.ExitLink != nil {
		out = append(out, []Coordinate{g.ExitLink.From, g.ExitLink.To})
	}
	return out
}

type geometryJSON struct {
	MainPath      []Coordinate `json:"mainPath"`
	BranchSegment []Coordinate `json:"branchSegment,omitempty"`
	EntryLink     *Link        `json:"entryLink,omitempty"`
	ExitLink      *Link        `json:"exitLink,omitempty"`
}

// MarshalJSON renders the shape handed to the map renderer
func (g RouteGeometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geometryJSON{
		MainPath:      g.MainCoordinates(),
		BranchSegment: g.BranchSegment(),
		EntryLink:     g.EntryLink,
		ExitLink:      g.ExitLink,
	})
}

func coordinates(entries []Entry) []Coordinate {
	out := make([]Coordinate, len(entries))
	for i, e := range entries {
		out[i] = e.Coordinate
	}
	return out
}
