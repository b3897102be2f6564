// Package store persists network snapshots in SQLite so a network derived
// once (from the backend or a GTFS feed) can be served again without its
// source. Each save creates a new snapshot identified by a UUID; readers ask
// for the latest snapshot of a named network.
package store
