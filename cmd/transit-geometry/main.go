package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/transit-geometry/backend"
	"github.com/theoremus-urban-solutions/transit-geometry/config"
	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/gtfs"
	"github.com/theoremus-urban-solutions/transit-geometry/gtfsrt"
	"github.com/theoremus-urban-solutions/transit-geometry/internal"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
	"github.com/theoremus-urban-solutions/transit-geometry/render"
	"github.com/theoremus-urban-solutions/transit-geometry/server"
	"github.com/theoremus-urban-solutions/transit-geometry/store"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve|import")
	source := flag.String("source", "", "backend|file|gtfs|store (defaults to the network's configured source)")
	format := flag.String("format", "json", "json|geojson")
	networkName := flag.String("network", "", "network name from config.networks[]")
	stations := flag.String("stations", "", "stations JSON file or URL (source=file)")
	routes := flag.String("routes", "", "routes JSON file or URL (source=file)")
	gtfsPath := flag.String("gtfs", "", "GTFS zip path or URL (overrides config)")
	routeID := flag.String("route", "", "only output this route (oneshot)")
	flag.Parse()

	internal.InitLogging(*mode)
	if err := config.LoadAppConfig(); err != nil {
		log.Printf("[main] No configuration loaded (%v), using defaults", err)
		cfg, perr := config.Parse([]byte("server: {}\n"))
		if perr != nil {
			log.Fatalf("[main] default configuration: %v", perr)
		}
		config.Config = cfg
	}

	netCfg := config.SelectNetwork(*networkName)
	if *gtfsPath != "" {
		netCfg.GTFS.StaticURL = *gtfsPath
	}
	src := *source
	if src == "" {
		src = netCfg.Source
	}
	if src == "" {
		src = "file"
	}

	ctx := context.Background()
	switch *mode {
	case "oneshot":
		n, err := loadNetwork(ctx, src, netCfg, *stations, *routes)
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		svc := geometry.NewService(config.Config.Geometry.SequenceEpsilon)
		svc.Name = netCfg.Name
		geoms := svc.ComputeNetwork(n)
		if *routeID != "" {
			g, ok := geoms[*routeID]
			if !ok {
				log.Fatalf("[main] route %s is not part of network %s", *routeID, netCfg.Name)
			}
			geoms = map[string]geometry.RouteGeometry{*routeID: g}
		}
		var buf []byte
		switch *format {
		case "geojson":
			buf, err = render.FeatureCollection(n, geoms, config.Config.Geometry.FallbackColor).MarshalJSON()
		case "json":
			buf, err = render.BuildIndentedJSON(geoms)
		default:
			log.Fatalf("[main] unknown format %q", *format)
		}
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		fmt.Println(string(buf))

	case "serve":
		provider, router, err := buildProvider(ctx, src, netCfg, *stations, *routes)
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		opts := server.Options{
			NetworkName:    netCfg.Name,
			Provider:       provider,
			Router:         router,
			Epsilon:        config.Config.Geometry.SequenceEpsilon,
			FallbackColor:  config.Config.Geometry.FallbackColor,
			MemoSize:       config.Config.Geometry.MemoSize,
			AllowedOrigins: config.Config.Server.AllowedOrigins,
		}
		if rt := netCfg.GTFSRT; rt.VehiclePositionsURL != "" {
			client := gtfsrt.NewClient(time.Duration(rt.TimeoutMS) * time.Millisecond)
			opts.Vehicles = server.NewFeedVehicleSource(client, rt.VehiclePositionsURL, time.Duration(rt.ReadIntervalMS)*time.Millisecond)
		}
		srv := server.New(opts)
		srv.Start(config.Config.Server.Port)
		srv.HandleGracefulShutdown()

	case "import":
		if *source == "" && src == "store" {
			src = "gtfs"
		}
		if src == "store" {
			log.Fatalf("[main] cannot import from the store into itself")
		}
		n, err := loadNetwork(ctx, src, netCfg, *stations, *routes)
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		st, err := store.Open(config.Config.Store.SQLitePath)
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		defer st.Close()
		id, err := st.SaveNetwork(ctx, netCfg.Name, n)
		if err != nil {
			log.Fatalf("[main] %v", err)
		}
		fmt.Println(id.String())

	default:
		log.Fatalf("[main] unknown mode %q", *mode)
	}
}

// loadNetwork reads the network once from the given source
func loadNetwork(ctx context.Context, src string, netCfg config.Network, stations, routes string) (network.Network, error) {
	switch src {
	case "backend":
		return backend.NewClient(netCfg.Backend).FetchNetwork(ctx)
	case "file":
		timeout := time.Duration(netCfg.Backend.TimeoutMS) * time.Millisecond
		return newFetcher(timeout).fetchNetwork(ctx, stations, routes)
	case "gtfs":
		return gtfs.NewNetworkFromConfig(ctx, netCfg.GTFS)
	case "store":
		st, err := store.Open(config.Config.Store.SQLitePath)
		if err != nil {
			return network.Network{}, err
		}
		defer st.Close()
		snap, err := st.LatestNetwork(ctx, netCfg.Name)
		if err != nil {
			return network.Network{}, err
		}
		return snap.Network, nil
	default:
		return network.Network{}, fmt.Errorf("unknown source %q", src)
	}
}

// buildProvider picks the network provider for serve mode. The routing
// backend also answers path and tree queries when it is configured.
func buildProvider(ctx context.Context, src string, netCfg config.Network, stations, routes string) (server.Provider, server.Router, error) {
	var router server.Router
	if netCfg.Backend.BaseURL != "" {
		router = backend.NewClient(netCfg.Backend)
	}

	switch src {
	case "backend":
		return server.BackendProvider{Client: backend.NewClient(netCfg.Backend)}, router, nil
	case "store":
		st, err := store.Open(config.Config.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return server.StoreProvider{Store: st, Name: netCfg.Name}, router, nil
	default:
		n, err := loadNetwork(ctx, src, netCfg, stations, routes)
		if err != nil {
			return nil, nil, err
		}
		return server.StaticProvider{Net: n, From: src}, router, nil
	}
}
