// Package config provides configuration types and loading for agora.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Paths, Server, Scheduler, Defaults.
type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Server    ServerConfig    `json:"server"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Defaults  DefaultsConfig  `json:"defaults"`
}

// PathsConfig groups all filesystem path settings.
type PathsConfig struct {
	Database string `json:"database" envconfig:"DATABASE"`
	LockFile string `json:"lockFile" envconfig:"LOCK_FILE"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Addr       string `json:"addr" envconfig:"ADDR"`
	CronSecret string `json:"cronSecret" envconfig:"CRON_SECRET"`
}

// SchedulerConfig controls the autonomous sweep loop.
type SchedulerConfig struct {
	Enabled       bool          `json:"enabled" envconfig:"ENABLED"`
	TickInterval  time.Duration `json:"tickInterval" envconfig:"TICK_INTERVAL"`
	BatchSize     int           `json:"batchSize" envconfig:"BATCH_SIZE"`
	MaxConcurrent int           `json:"maxConcurrent" envconfig:"MAX_CONCURRENT"`
}

// DefaultsConfig holds fallback agent settings.
type DefaultsConfig struct {
	Provider string `json:"provider" envconfig:"PROVIDER"`
	Model    string `json:"model,omitempty" envconfig:"MODEL"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Database: "agora.db",
			LockFile: "agora-sweep.lock",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Scheduler: SchedulerConfig{
			Enabled:       true,
			TickInterval:  5 * time.Minute,
			BatchSize:     5,
			MaxConcurrent: 3,
		},
		Defaults: DefaultsConfig{
			Provider: "anthropic",
		},
	}
}
