package config

import "github.com/me/credsched/pkg/model"

// SimulationConfig holds the tunable behavior of one scheduler run.
type SimulationConfig struct {
	BurstPolicy model.BurstPolicy // What a burst does when credits run out mid-burst
	Heartbeat   bool              // Add one clock unit per outer loop iteration
	MaxTicks    int               // Upper bound on loop iterations (0 = unlimited)
	MaxUnits    int               // Upper bound on executed CPU units across all bursts (0 = unlimited)
}

// DefaultSimulationConfig returns the reference behavior: yield on credit
// exhaustion and a heartbeat tick per iteration.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		BurstPolicy: model.BurstPolicyYield,
		Heartbeat:   true,
	}
}

// ServerConfig holds configuration for the credsched server.
type ServerConfig struct {
	Addr      string // Listen address (default ":8080")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	MaxTicks  int    // Tick ceiling for submitted workloads; they may only lower it
	MaxUnits  int    // CPU unit budget per submitted run
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		MaxTicks:  1_000_000,
		MaxUnits:  10_000_000,
	}
}
