// Package network holds the transit network data model consumed by route
// geometry reconstruction: stations (stops grouped under a parent station),
// routes, and the per-route sequence memberships that tie them together.
//
// The JSON shapes match the routing backend:
//
//	stations: [{parent_station, stop_name, barycenter_lat, barycenter_lon,
//	            route_ids_with_sequences: [{route_id, stop_sequence}]}]
//	routes:   [{route_id, route_color}]
//
// A stop_sequence may be null or absent (legacy data without ordering). A
// non-numeric stop_sequence is a contract violation and fails decoding.
package network
