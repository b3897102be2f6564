package render

import (
	"encoding/json"

	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
)

// BuildJSON serializes the route id to geometry mapping. Keys are written in
// sorted order.
func BuildJSON(geometries map[string]geometry.RouteGeometry) ([]byte, error) {
	if geometries == nil {
		geometries = map[string]geometry.RouteGeometry{}
	}
	return json.Marshal(geometries)
}

// BuildIndentedJSON is BuildJSON with two-space indentation for CLI output
func BuildIndentedJSON(geometries map[string]geometry.RouteGeometry) ([]byte, error) {
	if geometries == nil {
		geometries = map[string]geometry.RouteGeometry{}
	}
	return json.MarshalIndent(geometries, "", "  ")
}
