package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 16182
	DefaultFallbackColor = "FFFFFF"
	DefaultMemoSize      = 16
	DefaultSQLitePath    = "transit.db"
)

// Config is the global application configuration
var Config AppConfig

// configPaths lists the files probed by LoadAppConfig, in order
func configPaths() []string {
	if p := os.Getenv("TRANSIT_GEOMETRY_CONFIG"); p != "" {
		return []string{p}
	}
	return []string{"config.yml", "./config/config.yml"}
}

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	// .env first, then .env.local which overrides it for local development
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	var data []byte
	var err error
	for _, p := range configPaths() {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse decodes and validates a YAML configuration document, applies defaults
// and environment overrides
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Geometry); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Backend); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.GTFS); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.GTFSRT); err != nil {
		return AppConfig{}, err
	}
	// networks are optional; if present validate each
	for _, n := range cfg.Networks {
		if err := v.Struct(n); err != nil {
			return AppConfig{}, fmt.Errorf("network %q: %w", n.Name, err)
		}
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if p := os.Getenv("PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Server.Port = port
		}
	}
	if db := os.Getenv("SQLITE_DATABASE"); db != "" {
		cfg.Store.SQLitePath = db
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Geometry.FallbackColor == "" {
		cfg.Geometry.FallbackColor = DefaultFallbackColor
	}
	if cfg.Geometry.MemoSize == 0 {
		cfg.Geometry.MemoSize = DefaultMemoSize
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = DefaultSQLitePath
	}
}

// SelectNetwork chooses a network by name; fallback to first; if none, build one
// from the top-level backend/gtfs/gtfsrt sections.
func SelectNetwork(name string) Network {
	if name != "" {
		for _, n := range Config.Networks {
			if n.Name == name {
				return n
			}
		}
	}
	if len(Config.Networks) > 0 {
		return Config.Networks[0]
	}
	source := "backend"
	if Config.Backend.BaseURL == "" && Config.GTFS.StaticURL != "" {
		source = "gtfs"
	}
	return Network{
		Name:    "default",
		Source:  source,
		Backend: Config.Backend,
		GTFS:    Config.GTFS,
		GTFSRT:  Config.GTFSRT,
	}
}
