package geometry

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestBuildTour(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 0, Lon: 3}
	c := Coordinate{Lat: 4, Lon: 0}
	d := Coordinate{Lat: 1, Lon: 0}
	e := Coordinate{Lat: -1, Lon: 0}

	tests := []struct {
		name  string
		input []Coordinate
		want  []Coordinate
	}{
		{"empty", nil, []Coordinate{}},
		{"single point", []Coordinate{a}, []Coordinate{a}},
		{"nearest first", []Coordinate{a, b, c}, []Coordinate{a, b, c}},
		{"starts at first input", []Coordinate{c, a, b}, []Coordinate{c, a, b}},
		{"tie broken by input order", []Coordinate{a, d, e}, []Coordinate{a, d, e}},
		{"tie broken by input order reversed", []Coordinate{a, e, d}, []Coordinate{a, e, d}},
		{"collinear walk", []Coordinate{a, {Lat: 3}, {Lat: 1}, {Lat: 2}}, []Coordinate{a, {Lat: 1}, {Lat: 2}, {Lat: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTour(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildTour(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTourOrder_DuplicatesTrackedByIndex(t *testing.T) {
	p := Coordinate{Lat: 48.85, Lon: 2.35}
	q := Coordinate{Lat: 48.86, Lon: 2.36}

	order := TourOrder([]Coordinate{p, q, p})
	want := []int{0, 2, 1}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("TourOrder = %v, want %v", order, want)
	}

	order = TourOrder([]Coordinate{p, p, p})
	if !reflect.DeepEqual(order, []int{0, 1, 2}) {
		t.Errorf("TourOrder over identical points = %v, want [0 1 2]", order)
	}
}

func TestBuildTour_PermutationAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 20; run++ {
		n := 1 + rng.Intn(40)
		points := make([]Coordinate, n)
		for i := range points {
			// coarse grid so duplicates and ties actually happen
			points[i] = Coordinate{Lat: float64(rng.Intn(6)), Lon: float64(rng.Intn(6))}
		}

		got := BuildTour(points)
		if len(got) != n {
			t.Fatalf("run %d: tour has %d points, want %d", run, len(got), n)
		}
		if got[0] != points[0] {
			t.Errorf("run %d: tour starts at %v, want %v", run, got[0], points[0])
		}
		if !sameMultiset(got, points) {
			t.Errorf("run %d: tour is not a permutation of its input", run)
		}
		if again := BuildTour(points); !reflect.DeepEqual(got, again) {
			t.Errorf("run %d: tour differs between calls", run)
		}

		order := TourOrder(points)
		seen := make(map[int]bool, n)
		for _, idx := range order {
			if seen[idx] {
				t.Fatalf("run %d: index %d visited twice", run, idx)
			}
			seen[idx] = true
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Coordinate{0, 0}, Coordinate{3, 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(Coordinate{1, 1}, Coordinate{1, 1}); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func sameMultiset(a, b []Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	sorted := func(in []Coordinate) []Coordinate {
		out := append([]Coordinate(nil), in...)
		sort.Slice(out, func(i, j int) bool {
			if out[i].Lat != out[j].Lat {
				return out[i].Lat < out[j].Lat
			}
			return out[i].Lon < out[j].Lon
		})
		return out
	}
	return reflect.DeepEqual(sorted(a), sorted(b))
}
