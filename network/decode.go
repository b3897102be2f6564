package network

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeStops decodes the backend stations array and validates each entry
func DecodeStops(r io.Reader) ([]Stop, error) {
	var stops []Stop
	if err := json.NewDecoder(r).Decode(&stops); err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	for i := range stops {
		if err := validate.Struct(stops[i]); err != nil {
			return nil, fmt.Errorf("station %d (%s): %w", i, stops[i].ID, err)
		}
	}
	return stops, nil
}

// DecodeRoutes decodes the backend routes array and validates each entry
func DecodeRoutes(r io.Reader) ([]Route, error) {
	var routes []Route
	if err := json.NewDecoder(r).Decode(&routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	for i := range routes {
		if err := validate.Struct(routes[i]); err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i, routes[i].ID, err)
		}
	}
	return routes, nil
}
