package network

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// Network is one wholesale refresh of stations and routes
type Network struct {
	Stops  []Stop  `json:"stations"`
	Routes []Route `json:"routes"`
}

// RouteByID returns the first route with the given id
func (n Network) RouteByID(id string) (Route, bool) {
	for _, r := range n.Routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

// StopByID returns the first stop with the given parent_station
func (n Network) StopByID(id string) (Stop, error) {
	for _, s := range n.Stops {
		if s.ID == id {
			return s, nil
		}
	}
	return Stop{}, fmt.Errorf("%w: %s", ErrUnknownStation, id)
}

// StopIndex maps parent_station to the first stop carrying it
func (n Network) StopIndex() map[string]Stop {
	idx := make(map[string]Stop, len(n.Stops))
	for _, s := range n.Stops {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = s
		}
	}
	return idx
}

// Validate checks every stop and route against its struct tags
func (n Network) Validate() error {
	for i := range n.Stops {
		if err := validate.Struct(n.Stops[i]); err != nil {
			return fmt.Errorf("station %d (%s): %w", i, n.Stops[i].ID, err)
		}
	}
	for i := range n.Routes {
		if err := validate.Struct(n.Routes[i]); err != nil {
			return fmt.Errorf("route %d (%s): %w", i, n.Routes[i].ID, err)
		}
	}
	return nil
}

// Fingerprint hashes the network content in input order. Two networks with the
// same fingerprint produce the same geometry, so it serves as a memo key.
func (n Network) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	writeString("stations")
	for _, s := range n.Stops {
		writeString(s.ID)
		writeString(s.Name)
		writeFloat(s.Lat)
		writeFloat(s.Lon)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s.Memberships)))
		h.Write(buf[:])
		for _, m := range s.Memberships {
			writeString(m.RouteID)
			if m.Sequence.Valid {
				h.Write([]byte{1})
				writeFloat(m.Sequence.Value)
			} else {
				h.Write([]byte{0})
			}
		}
	}
	writeString("routes")
	for _, r := range n.Routes {
		writeString(r.ID)
		writeString(r.Color)
	}
	return h.Sum64()
}
