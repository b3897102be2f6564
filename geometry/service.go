package geometry

import (
	"math"
	"strconv"

	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// RouteInput is the per-route work item: the chosen strategy and the route's
// memberships in stop input order
type RouteInput struct {
	RouteID     string
	Strategy    Strategy
	Memberships []Membership
}

// Service computes geometry for every route of a network
type Service struct {
	Classifier Classifier
	// Name labels log lines; it does not affect results
	Name string
}

// NewService returns a Service classifying sequences with the given epsilon
func NewService(epsilon float64) Service {
	return Service{Classifier: Classifier{Epsilon: epsilon}, Name: "default"}
}

// Plan groups memberships by route and selects a strategy for each route in
// the order of the route collection. Memberships of unknown routes are
// recorded in the returned aggregator and skipped.
func (s Service) Plan(stops []network.Stop, routes []network.Route) ([]RouteInput, *WarningAggregator) {
	warnings := NewWarningAggregator()

	inputs := make([]RouteInput, 0, len(routes))
	byRoute := make(map[string]int, len(routes))
	sequenced := make([]bool, 0, len(routes))
	for _, r := range routes {
		if _, dup := byRoute[r.ID]; dup {
			continue
		}
		byRoute[r.ID] = len(inputs)
		inputs = append(inputs, RouteInput{RouteID: r.ID})
		sequenced = append(sequenced, true)
	}

	for _, stop := range stops {
		coord := Coordinate{Lat: stop.Lat, Lon: stop.Lon}
		for _, m := range stop.Memberships {
			i, ok := byRoute[m.RouteID]
			if !ok {
				warnings.Add(WarningUnknownRoute, m.RouteID+"@"+stop.ID)
				continue
			}
			if !m.Sequence.Valid || math.IsNaN(m.Sequence.Value) || math.IsInf(m.Sequence.Value, 0) {
				sequenced[i] = false
			}
			inputs[i].Memberships = append(inputs[i].Memberships, Membership{
				StopID:     stop.ID,
				Coordinate: coord,
				Sequence:   m.Sequence.Value,
			})
		}
	}

	for i := range inputs {
		switch {
		case len(inputs[i].Memberships) == 0:
			inputs[i].Strategy = StrategyNone
		case sequenced[i]:
			inputs[i].Strategy = StrategySequenced
		default:
			inputs[i].Strategy = StrategyTour
			warnings.Add(WarningUnsequencedMembership, inputs[i].RouteID)
		}
	}
	return inputs, warnings
}

// Build computes the geometry of one planned route
func (s Service) Build(in RouteInput) RouteGeometry {
	switch in.Strategy {
	case StrategySequenced:
		return Assembler{Classifier: s.Classifier}.Assemble(in.RouteID, in.Memberships)
	case StrategyTour:
		points := make([]Coordinate, len(in.Memberships))
		for i, m := range in.Memberships {
			points[i] = m.Coordinate
		}
		order := TourOrder(points)
		g := RouteGeometry{RouteID: in.RouteID, Strategy: StrategyTour, MainPath: make([]Entry, len(order))}
		for rank, idx := range order {
			m := in.Memberships[idx]
			g.MainPath[rank] = Entry{StopID: m.StopID, Coordinate: m.Coordinate, Sequence: float64(rank + 1)}
		}
		return g
	default:
		return EmptyGeometry(in.RouteID)
	}
}

// Compute returns the geometry of every known route together with the
// warnings raised while building it
func (s Service) Compute(stops []network.Stop, routes []network.Route) (map[string]RouteGeometry, *WarningAggregator) {
	inputs, warnings := s.Plan(stops, routes)
	out := make(map[string]RouteGeometry, len(inputs))
	for _, in := range inputs {
		g := s.Build(in)
		if len(g.Branch) > 0 {
			if len(g.Branch) == 1 {
				warnings.Add(WarningIsolatedBranchStop, g.RouteID+"@"+g.Branch[0].StopID)
			}
			if g.EntryLink == nil {
				warnings.Add(WarningMissingEntryAttachment, g.RouteID+"@"+strconv.FormatFloat(g.Branch[0].Sequence, 'f', -1, 64))
			}
			if g.ExitLink == nil {
				warnings.Add(WarningMissingExitAttachment, g.RouteID+"@"+strconv.FormatFloat(g.Branch[len(g.Branch)-1].Sequence, 'f', -1, 64))
			}
		}
		out[in.RouteID] = g
	}
	return out, warnings
}

// ComputeAll returns the geometry of every known route and logs the warnings
func (s Service) ComputeAll(stops []network.Stop, routes []network.Route) map[string]RouteGeometry {
	out, warnings := s.Compute(stops, routes)
	warnings.LogAll("geometry", s.Name)
	return out
}

// ComputeNetwork is ComputeAll over a network
func (s Service) ComputeNetwork(n network.Network) map[string]RouteGeometry {
	return s.ComputeAll(n.Stops, n.Routes)
}
