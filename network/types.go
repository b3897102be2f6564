package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownStation is returned when a parent_station is not part of the network
var ErrUnknownStation = errors.New("unknown station")

// Sequence is a per-route stop_sequence. Valid is false when the backend sent
// null or omitted the field.
type Sequence struct {
	Value float64
	Valid bool
}

// Seq returns a valid Sequence holding v
func Seq(v float64) Sequence { return Sequence{Value: v, Valid: true} }

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (s *Sequence) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Sequence{}
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
		if raw == "" {
			*s = Sequence{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("stop_sequence %s is not a number", string(b))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("stop_sequence %s is not finite", string(b))
	}
	*s = Sequence{Value: v, Valid: true}
	return nil
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// RouteMembership ties a stop to a route at a position along it
type RouteMembership struct {
	RouteID  string   `json:"route_id" validate:"required"`
	Sequence Sequence `json:"stop_sequence"`
}

// Stop is a station as served by the backend: a parent_station with the
// barycenter of its platforms
type Stop struct {
	ID          string            `json:"parent_station" validate:"required"`
	Name        string            `json:"stop_name"`
	Lat         float64           `json:"barycenter_lat"`
	Lon         float64           `json:"barycenter_lon"`
	Memberships []RouteMembership `json:"route_ids_with_sequences" validate:"dive"`
}

// Route is a transit line. Color is hex without a leading '#'.
type Route struct {
	ID    string `json:"route_id" validate:"required"`
	Color string `json:"route_color"`
}
