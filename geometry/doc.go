// Package geometry reconstructs drawable route geometry from stop memberships.
//
// Two strategies are available and chosen per route by Service:
//
//   - StrategySequenced: stops carry a stop_sequence. Whole numbers form the
//     main path; fractional numbers form a single branch segment that is
//     attached to the main path at floor(first)-1 and floor(last)+1.
//   - StrategyTour: stops carry no ordering. A greedy nearest-neighbor walk
//     starting at the first stop produces the line.
//
// Distances are planar deltas in raw degrees, not great-circle distances.
// Everything in this package is pure: the same input always yields the same
// output and nothing is cached. Callers that render repeatedly should memoize
// on network.Network.Fingerprint.
package geometry
