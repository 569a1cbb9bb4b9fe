// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Routing RoutingConfig `yaml:"routing" mapstructure:"routing"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backends. DatabaseURL is the Postgres
// source of projects, POIs, and airports; Driver selects where computed
// highlights are kept (postgres reuses the same pool, sqlite writes a local
// file at SQLitePath).
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// GoogleConfig holds Google Maps Platform settings. An empty key is a valid
// operating mode: routing falls back to circle distance and golf search is
// skipped.
type GoogleConfig struct {
	MapsAPIKey    string `yaml:"maps_api_key" mapstructure:"maps_api_key"`
	MatrixBaseURL string `yaml:"matrix_base_url" mapstructure:"matrix_base_url"`
	PlacesBaseURL string `yaml:"places_base_url" mapstructure:"places_base_url"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	SearchRetries int    `yaml:"search_retries" mapstructure:"search_retries"`
}

// SearchConfig holds per-source geo search radii in kilometers.
type SearchConfig struct {
	POIRadiusKm     float64 `yaml:"poi_radius_km" mapstructure:"poi_radius_km"`
	AirportRadiusKm float64 `yaml:"airport_radius_km" mapstructure:"airport_radius_km"`
	GolfRadiusKm    float64 `yaml:"golf_radius_km" mapstructure:"golf_radius_km"`
}

// CacheConfig configures highlight freshness.
type CacheConfig struct {
	TTLDays int `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// TTL returns the freshness window as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// RoutingConfig configures the distance matrix resolver throttle.
type RoutingConfig struct {
	PauseMs int `yaml:"pause_ms" mapstructure:"pause_ms"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HIGHLIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "highlights.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("google.matrix_base_url", "https://maps.googleapis.com/maps/api/distancematrix/json")
	v.SetDefault("google.places_base_url", "https://maps.googleapis.com/maps/api/place/textsearch/json")
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("google.search_retries", 2)
	v.SetDefault("search.poi_radius_km", 15.0)
	v.SetDefault("search.airport_radius_km", 40.0)
	v.SetDefault("search.golf_radius_km", 15.0)
	v.SetDefault("cache.ttl_days", 60)
	v.SetDefault("routing.pause_ms", 100)
	v.SetDefault("batch.concurrency", 1)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
