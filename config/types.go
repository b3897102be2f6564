package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// BackendConfig points at the routing backend that serves stations, routes,
// shortest paths and spanning trees
type BackendConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// GTFSConfig contains GTFS static feed configuration
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty"`
	AgencyID  string `yaml:"agency_id" validate:"omitempty"`
	RouteType *int   `yaml:"route_type" validate:"omitempty,gte=0"`
	CachePath string `yaml:"cachePath" validate:"omitempty"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	ReadIntervalMS      int    `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// GeometryConfig contains route geometry reconstruction settings
type GeometryConfig struct {
	SequenceEpsilon float64 `yaml:"sequence_epsilon" validate:"gte=0,lt=0.5"`
	FallbackColor   string  `yaml:"fallbackColor" validate:"omitempty,hexadecimal,len=6"`
	MemoSize        int     `yaml:"memoSize" validate:"gte=0"`
}

// StoreConfig contains snapshot store configuration
type StoreConfig struct {
	SQLitePath string `yaml:"sqlitePath"`
}

// Network represents a single named transit network configuration
type Network struct {
	Name    string        `yaml:"name" validate:"required"`
	Source  string        `yaml:"source" validate:"required,oneof=backend gtfs store"`
	Backend BackendConfig `yaml:"backend"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Backend  BackendConfig  `yaml:"backend"`
	GTFS     GTFSConfig     `yaml:"gtfs"`
	GTFSRT   GTFSRTConfig   `yaml:"gtfsrt"`
	Geometry GeometryConfig `yaml:"geometry"`
	Store    StoreConfig    `yaml:"store"`
	Networks []Network      `yaml:"networks"`
}
