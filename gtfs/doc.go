/*
Package gtfs derives a station network from a GTFS static feed.

The package reads the CSV tables of a GTFS zip (agency, routes, trips, stops,
stop_times) and turns them into the network.Network consumed by the geometry
package: one Stop per station and one Route per route.

# Basic Usage

Load from raw bytes:

	zipBytes := fetchGTFSFromYourSource()

	net, err := gtfs.NewNetworkFromBytes(zipBytes, gtfs.Options{AgencyID: "TCL"})
	if err != nil {
	    log.Fatal(err)
	}

Load from configuration, a local path or an http(s) URL:

	net, err := gtfs.NewNetworkFromConfig(ctx, config.Config.GTFS)

# Stations

Stops are grouped by parent_station. A stop without a parent is its own
station. The station coordinate is the barycenter of its platforms and its
name comes from the parent row when the feed has one.

# Stop Sequences

GTFS trips carry integer stop_sequence values per trip, while the network
model expects one sequence per station and route. For every route the trip
serving the most stations is the representative trip and numbers its stations
1..n. The first run of stations that another trip serves off the
representative trip becomes the route's branch and receives fractional
sequences between the main stations it bypasses:

	p + 1 + (j+1)/(c+1)

where p is the representative position preceding the run, j the index in the
run and c the run length. Further runs are not encoded.

# Performance: Cache the Network

Parsing stop_times.txt dominates load time. Set gtfs.cachePath to keep a gob
copy of the derived network on disk (see SerializeNetworkToFile).
*/
package gtfs
