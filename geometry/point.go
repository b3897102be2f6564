package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in degrees. It marshals as [lat, lon].
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 values, got %d", len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// Distance returns the Euclidean distance between a and b in raw degree units
func Distance(a, b Coordinate) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}
