// Package gtfsrt fetches GTFS-Realtime vehicle positions and turns them into
// the vehicle overlay drawn on top of route geometry.
//
// Only the VehiclePosition entities of a feed are read. Vehicles whose route
// is not part of the network are dropped and reported through a
// geometry.WarningAggregator, the same policy applied to unknown route
// memberships.
package gtfsrt
