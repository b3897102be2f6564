// Package server exposes route geometry over HTTP for browser map clients.
//
// The current network comes from a Provider (the routing backend, a GTFS
// feed loaded at startup, or the latest store snapshot). Geometry is computed
// on demand and memoized per network fingerprint, so repeated requests against
// an unchanged network reuse the previous result.
package server
