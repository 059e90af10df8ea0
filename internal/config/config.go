package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Sim       SimConfig
	Sync      SyncConfig
	Transport TransportConfig
	Geo       GeoConfig
	Pricing   PricingConfig
}

// ServerConfig holds HTTP server configuration for the dev backend.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// SimConfig tunes the simulated marketplace.
type SimConfig struct {
	StepInterval time.Duration // time between simulated status advances
}

// SyncConfig tunes the status synchronizer.
type SyncConfig struct {
	RidePollInterval     time.Duration
	DeliveryPollInterval time.Duration
	FailureThreshold     int
}

// TransportConfig points the client at the remote marketplace API.
type TransportConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeoConfig holds the approximate fallback point used when address
// resolution fails (defaults to central Delhi).
type GeoConfig struct {
	FallbackLat     float64
	FallbackLng     float64
	FallbackEnabled bool
}

// PricingConfig locates the optional tariff file.
type PricingConfig struct {
	TariffFile string // empty means built-in defaults
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "tripflow-sim"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Sim: SimConfig{
			StepInterval: getDurationEnv("SIM_STEP_INTERVAL", 15*time.Second),
		},
		Sync: SyncConfig{
			RidePollInterval:     getDurationEnv("SYNC_RIDE_POLL_INTERVAL", 10*time.Second),
			DeliveryPollInterval: getDurationEnv("SYNC_DELIVERY_POLL_INTERVAL", 30*time.Second),
			FailureThreshold:     getIntEnv("SYNC_FAILURE_THRESHOLD", 3),
		},
		Transport: TransportConfig{
			BaseURL: getEnv("TRANSPORT_BASE_URL", "http://localhost:8080"),
			Timeout: getDurationEnv("TRANSPORT_TIMEOUT", 5*time.Second),
		},
		Geo: GeoConfig{
			FallbackLat:     getFloatEnv("GEO_FALLBACK_LAT", 28.6139),
			FallbackLng:     getFloatEnv("GEO_FALLBACK_LNG", 77.2090),
			FallbackEnabled: getBoolEnv("GEO_FALLBACK_ENABLED", true),
		},
		Pricing: PricingConfig{
			TariffFile: getEnv("PRICING_TARIFF_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
