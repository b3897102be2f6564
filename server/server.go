package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/theoremus-urban-solutions/transit-geometry/config"
	"github.com/theoremus-urban-solutions/transit-geometry/geometry"
	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// Options configures a Server. Router and Vehicles are optional.
type Options struct {
	NetworkName    string
	Provider       Provider
	Router         Router
	Vehicles       VehicleSource
	Epsilon        float64
	FallbackColor  string
	MemoSize       int
	AllowedOrigins []string
}

// Server serves route geometry over HTTP
type Server struct {
	opts       Options
	service    geometry.Service
	memo       gcache.Cache
	httpServer *http.Server
}

// New creates a Server
func New(opts Options) *Server {
	if opts.NetworkName == "" {
		opts.NetworkName = "default"
	}
	if opts.FallbackColor == "" {
		opts.FallbackColor = config.DefaultFallbackColor
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = config.DefaultMemoSize
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	svc := geometry.NewService(opts.Epsilon)
	svc.Name = opts.NetworkName
	return &Server{
		opts:    opts,
		service: svc,
		memo:    gcache.New(opts.MemoSize).LRU().Build(),
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stations", s.handleStations)
	r.Get("/api/routes", s.handleRoutes)
	r.Get("/api/geometry", s.handleGeometry)
	r.Get("/api/geometry.geojson", s.handleGeometryGeoJSON)
	r.Get("/api/geometry/{routeID}", s.handleRouteGeometry)
	r.Get("/api/vehicles", s.handleVehicles)
	r.Get("/api/path", s.handlePath)
	r.Get("/api/path.geojson", s.handlePathGeoJSON)
	r.Get("/api/tree", s.handleTree)
	r.Get("/api/tree.geojson", s.handleTreeGeoJSON)
	return r
}

// Start listens on port in the background
func (s *Server) Start(port int) {
	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] server error: %v", err)
		}
	}()
	log.Printf("[server] Network %s (%s) listening on %s", s.opts.NetworkName, s.opts.Provider.Source(), addr)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then shuts the server down
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("[server] shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown error: %v", err)
	} else {
		log.Printf("[server] shut down successfully")
	}
}

// Shutdown stops a started server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// geometryFor returns the geometry of n, computing it at most once per
// network fingerprint
func (s *Server) geometryFor(n network.Network) map[string]geometry.RouteGeometry {
	key := fmt.Sprintf("%s:%016x:%g", s.opts.NetworkName, n.Fingerprint(), s.service.Classifier.Epsilon)
	if v, err := s.memo.Get(key); err == nil {
		return v.(map[string]geometry.RouteGeometry)
	}
	geoms := s.service.ComputeNetwork(n)
	if err := s.memo.Set(key, geoms); err != nil {
		log.Printf("[server] failed to memoize geometry: %v", err)
	}
	return geoms
}
