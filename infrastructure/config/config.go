package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion      string
	ObjectsTable   string
	ZIndexName     string // GSI for z-order scans within a project
	EventBusName   string
	EventBusSource string

	// Sync configuration
	SnapshotInterval time.Duration
	CommitTimeout    time.Duration
	ThrottleInterval time.Duration
	DebounceSettle   time.Duration

	// Presence configuration
	PresenceStaleness time.Duration
	PingInterval      time.Duration

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool

	// Dynamic overrides file, watched at runtime when set
	OverridesFile string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		ObjectsTable:   getEnv("OBJECTS_TABLE", "canvas-objects"),
		ZIndexName:     getEnv("ZINDEX_INDEX_NAME", "ZIndexOrder"),
		EventBusName:   getEnv("EVENT_BUS_NAME", "canvas-events"),
		EventBusSource: getEnv("EVENT_BUS_SOURCE", "canvas-backend"),

		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 2*time.Second),
		CommitTimeout:    getEnvDuration("COMMIT_TIMEOUT", 10*time.Second),
		ThrottleInterval: getEnvDuration("THROTTLE_INTERVAL", 50*time.Millisecond),
		DebounceSettle:   getEnvDuration("DEBOUNCE_SETTLE", 500*time.Millisecond),

		PresenceStaleness: getEnvDuration("PRESENCE_STALENESS", 30*time.Second),
		PingInterval:      getEnvDuration("PING_INTERVAL", 54*time.Second),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		OverridesFile: getEnv("CONFIG_OVERRIDES_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ObjectsTable == "" {
		return fmt.Errorf("OBJECTS_TABLE is required")
	}
	if c.Environment == "production" && c.EventBusName == "" {
		return fmt.Errorf("EVENT_BUS_NAME is required in production")
	}
	if c.ThrottleInterval <= 0 || c.DebounceSettle <= 0 {
		return fmt.Errorf("throttle and debounce intervals must be positive")
	}
	if c.PresenceStaleness <= 0 {
		return fmt.Errorf("PRESENCE_STALENESS must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration gets a duration environment variable with a default value.
// Bare integers are read as milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
