// Package render turns computed route geometry into the documents handed to
// map clients.
//
// This package is organized into:
// - json.go: the route id to geometry mapping consumed by the map renderer
// - geojson.go: a GeoJSON FeatureCollection of routes and stations
// - overlay.go: shortest path and spanning tree overlays
// - color.go: route color resolution
package render
