// Package backend is an HTTP client for the routing backend that serves the
// station network (stations, routes) and precomputed shortest paths and
// minimum spanning trees. Path and tree results are decoded and passed through;
// nothing is computed here.
package backend
