package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Scene constraints
	MaxObjectsPerScene int
	MinGroupSize       int

	// Clipboard behavior
	DuplicateOffset float64

	// Presence behavior
	PresenceStaleness time.Duration

	// Commit scheduling
	ThrottleInterval time.Duration
	DebounceSettle   time.Duration

	// Text defaults
	DefaultFontSize   float64
	DefaultFontFamily string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxObjectsPerScene: 10000,
		MinGroupSize:       2,

		DuplicateOffset: 20,

		PresenceStaleness: 30 * time.Second,

		ThrottleInterval: 50 * time.Millisecond,
		DebounceSettle:   500 * time.Millisecond,

		DefaultFontSize:   16,
		DefaultFontFamily: "Inter",
	}
}
