package geometry

import (
	"math"
	"reflect"
	"testing"
)

var (
	ptA = Coordinate{Lat: 0, Lon: 0}
	ptB = Coordinate{Lat: 1, Lon: 1}
	ptC = Coordinate{Lat: 2, Lon: 2}
	ptD = Coordinate{Lat: 1.5, Lon: 3}
	ptE = Coordinate{Lat: 1.7, Lon: 3.2}
)

func member(id string, c Coordinate, seq float64) Membership {
	return Membership{StopID: id, Coordinate: c, Sequence: seq}
}

func stopIDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StopID
	}
	return ids
}

func TestAssemble_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		input      []Membership
		wantMain   []string
		wantBranch []string
		wantEntry  *Link
		wantExit   *Link
		drawable   bool
	}{
		{
			name:     "main stops only",
			input:    []Membership{member("C", ptC, 3), member("A", ptA, 1), member("B", ptB, 2)},
			wantMain: []string{"A", "B", "C"},
		},
		{
			name:       "isolated branch stop without neighbors",
			input:      []Membership{member("A", ptA, 1), member("C", ptC, 3), member("D", ptD, 1.5)},
			wantMain:   []string{"A", "C"},
			wantBranch: []string{"D"},
		},
		{
			name:       "branch before the second stop exits onto it",
			input:      []Membership{member("A", ptA, 1), member("B", ptB, 2), member("C", ptC, 3), member("E", ptE, 1.7), member("D", ptD, 1.5)},
			wantMain:   []string{"A", "B", "C"},
			wantBranch: []string{"D", "E"},
			wantExit:   &Link{From: ptE, To: ptB},
			drawable:   true,
		},
		{
			name:       "branch replacing a main stop links on both sides",
			input:      []Membership{member("A", ptA, 1), member("B", ptB, 2), member("C", ptC, 3), member("D", ptD, 2.5), member("E", ptE, 2.7)},
			wantMain:   []string{"A", "B", "C"},
			wantBranch: []string{"D", "E"},
			wantEntry:  &Link{From: ptA, To: ptD},
			wantExit:   &Link{From: ptE, To: ptC},
			drawable:   true,
		},
		{
			name:       "entry attachment missing keeps the segment",
			input:      []Membership{member("B", ptB, 2), member("C", ptC, 3), member("D", ptD, 2.5), member("E", ptE, 2.7)},
			wantMain:   []string{"B", "C"},
			wantBranch: []string{"D", "E"},
			wantExit:   &Link{From: ptE, To: ptC},
			drawable:   true,
		},
		{
			name:       "single branch stop with both neighbors",
			input:      []Membership{member("A", ptA, 1), member("B", ptB, 2), member("C", ptC, 3), member("D", ptD, 2.5)},
			wantMain:   []string{"A", "B", "C"},
			wantBranch: []string{"D"},
			wantEntry:  &Link{From: ptA, To: ptD},
			wantExit:   &Link{From: ptD, To: ptC},
		},
		{
			name:       "branch only",
			input:      []Membership{member("E", ptE, 4.7), member("D", ptD, 4.2)},
			wantMain:   []string{},
			wantBranch: []string{"D", "E"},
			drawable:   true,
		},
		{
			name:     "equal sequences keep input order",
			input:    []Membership{member("B", ptB, 2), member("A", ptA, 1), member("B2", ptB, 2)},
			wantMain: []string{"A", "B", "B2"},
		},
		{
			name:     "no memberships",
			input:    nil,
			wantMain: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Assemble("R", tt.input)
			if g.RouteID != "R" || g.Strategy != StrategySequenced {
				t.Errorf("route/strategy = %s/%s", g.RouteID, g.Strategy)
			}
			if got := stopIDs(g.MainPath); !reflect.DeepEqual(got, tt.wantMain) {
				t.Errorf("main path = %v, want %v", got, tt.wantMain)
			}
			wantBranch := tt.wantBranch
			if wantBranch == nil {
				wantBranch = []string{}
			}
			if got := stopIDs(g.Branch); !reflect.DeepEqual(got, wantBranch) {
				t.Errorf("branch = %v, want %v", got, wantBranch)
			}
			if !reflect.DeepEqual(g.EntryLink, tt.wantEntry) {
				t.Errorf("entry link = %v, want %v", g.EntryLink, tt.wantEntry)
			}
			if !reflect.DeepEqual(g.ExitLink, tt.wantExit) {
				t.Errorf("exit link = %v, want %v", g.ExitLink, tt.wantExit)
			}
			if drawable := g.BranchSegment() != nil; drawable != tt.drawable {
				t.Errorf("branch drawable = %v, want %v", drawable, tt.drawable)
			}
		})
	}
}

func TestAssemble_IntegerOnlyHasNoBranchOrLinks(t *testing.T) {
	var input []Membership
	for i := 10; i > 0; i-- {
		input = append(input, member("S", Coordinate{Lat: float64(i)}, float64(i)))
	}
	g := Assemble("R", input)
	if len(g.Branch) != 0 || g.EntryLink != nil || g.ExitLink != nil {
		t.Errorf("integer-only route produced branch %v entry %v exit %v", g.Branch, g.EntryLink, g.ExitLink)
	}
	assertStrictlyIncreasing(t, g.MainPath)
}

func TestAssemble_MonotonicOutput(t *testing.T) {
	seqs := []float64{7, 3.25, 1, 5, 3.75, 2, 3.5, 4, 6}
	var input []Membership
	for i, s := range seqs {
		input = append(input, member(string(rune('a'+i)), Coordinate{Lat: s, Lon: -s}, s))
	}
	g := Assemble("R", input)
	assertStrictlyIncreasing(t, g.MainPath)
	for i := 1; i < len(g.Branch); i++ {
		if g.Branch[i].Sequence < g.Branch[i-1].Sequence {
			t.Errorf("branch sequence decreases at %d: %v", i, g.Branch)
		}
	}
	if len(g.MainPath)+len(g.Branch) != len(seqs) {
		t.Errorf("lost memberships: main %d branch %d input %d", len(g.MainPath), len(g.Branch), len(seqs))
	}
	// floor(3.25)-1 = 2 and floor(3.75)+1 = 4
	if g.EntryLink == nil || g.EntryLink.From != (Coordinate{Lat: 2, Lon: -2}) {
		t.Errorf("entry link = %v, want from stop at sequence 2", g.EntryLink)
	}
	if g.ExitLink == nil || g.ExitLink.To != (Coordinate{Lat: 4, Lon: -4}) {
		t.Errorf("exit link = %v, want to stop at sequence 4", g.ExitLink)
	}
}

func TestClassifier(t *testing.T) {
	nearTwo := 2 + 1e-9
	tests := []struct {
		name     string
		epsilon  float64
		seq      float64
		wantMain bool
		wantNorm float64
	}{
		{"exact integer", 0, 2, true, 2},
		{"exact fraction", 0, 2.5, false, 2.5},
		{"near integer without epsilon", 0, nearTwo, false, nearTwo},
		{"near integer with epsilon", 1e-6, nearTwo, true, 2},
		{"below integer with epsilon", 1e-6, 3 - 1e-9, true, 3},
		{"fraction outside epsilon", 1e-6, 2.5, false, 2.5},
		{"negative integer", 0, -1, true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classifier{Epsilon: tt.epsilon}
			if got := c.IsMain(tt.seq); got != tt.wantMain {
				t.Errorf("IsMain(%v) = %v, want %v", tt.seq, got, tt.wantMain)
			}
			if got := c.Normalize(tt.seq); got != tt.wantNorm {
				t.Errorf("Normalize(%v) = %v, want %v", tt.seq, got, tt.wantNorm)
			}
		})
	}
}

func TestAssembler_EpsilonSnapsBeforeSorting(t *testing.T) {
	input := []Membership{
		member("A", ptA, 1),
		member("B", ptB, 2.0000000001),
		member("C", ptC, 3),
	}

	exact := Assemble("R", input)
	if got := stopIDs(exact.MainPath); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("exact main path = %v, want [A C]", got)
	}

	snapped := Assembler{Classifier: Classifier{Epsilon: 1e-6}}.Assemble("R", input)
	if got := stopIDs(snapped.MainPath); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("snapped main path = %v, want [A B C]", got)
	}
	if snapped.MainPath[1].Sequence != 2 {
		t.Errorf("snapped sequence = %v, want 2", snapped.MainPath[1].Sequence)
	}
}

func assertStrictlyIncreasing(t *testing.T, entries []Entry) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		if !(entries[i].Sequence > entries[i-1].Sequence) {
			t.Errorf("sequence not strictly increasing at %d: %v then %v", i, entries[i-1].Sequence, entries[i].Sequence)
		}
	}
	for _, e := range entries {
		if e.Sequence != math.Floor(e.Sequence) {
			t.Errorf("main path holds fractional sequence %v", e.Sequence)
		}
	}
}
