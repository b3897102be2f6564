package geometry

import (
	"math"
	"sort"
)

// Classifier decides whether a stop_sequence is on the main line. With a zero
// Epsilon a value is main only when it equals its floor exactly. A positive
// Epsilon first snaps values within Epsilon of an integer onto that integer.
type Classifier struct {
	Epsilon float64
}

// Normalize returns seq snapped to the nearest integer when within Epsilon
func (c Classifier) Normalize(seq float64) float64 {
	if c.Epsilon > 0 {
		if r := math.Round(seq); math.Abs(seq-r) <= c.Epsilon {
			return r
		}
	}
	return seq
}

// IsMain reports whether seq denotes a main-line stop
func (c Classifier) IsMain(seq float64) bool {
	s := c.Normalize(seq)
	return s == math.Floor(s)
}

// Assembler builds sequenced route geometry
type Assembler struct {
	Classifier Classifier
}

// Assemble orders memberships into a main path and a single branch segment.
// Sorting is stable, so equal sequence numbers keep their input order.
func (a Assembler) Assemble(routeID string, memberships []Membership) RouteGeometry {
	g := RouteGeometry{RouteID: routeID, Strategy: StrategySequenced, MainPath: []Entry{}}
	for _, m := range memberships {
		e := Entry{StopID: m.StopID, Coordinate: m.Coordinate, Sequence: a.Classifier.Normalize(m.Sequence)}
		if a.Classifier.IsMain(m.Sequence) {
			g.MainPath = append(g.MainPath, e)
		} else {
			g.Branch = append(g.Branch, e)
		}
	}
	sort.SliceStable(g.MainPath, func(i, j int) bool { return g.MainPath[i].Sequence < g.MainPath[j].Sequence })
	sort.SliceStable(g.Branch, func(i, j int) bool { return g.Branch[i].Sequence < g.Branch[j].Sequence })

	if len(g.Branch) == 0 {
		return g
	}
	first := g.Branch[0]
	last := g.Branch[len(g.Branch)-1]
	if prev, ok := findMain(g.MainPath, math.Floor(first.Sequence)-1); ok {
		g.EntryLink = &Link{From: prev.Coordinate, To: first.Coordinate}
	}
	if next, ok := findMain(g.MainPath, math.Floor(last.Sequence)+1); ok {
		g.ExitLink = &Link{From: last.Coordinate, To: next.Coordinate}
	}
	return g
}

// Assemble runs an exact-equality Assembler
func Assemble(routeID string, memberships []Membership) RouteGeometry {
	return Assembler{}.Assemble(routeID, memberships)
}

func findMain(main []Entry, seq float64) (Entry, bool) {
	for _, e := range main {
		if e.Sequence == seq {
			return e, true
		}
	}
	return Entry{}, false
}
