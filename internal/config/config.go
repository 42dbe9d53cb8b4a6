// Package config defines the engine configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the number of evaluation workers. Zero uses one per CPU.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the record ID cache used at ingest. Zero keeps every ID.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the record store.
	ShardCount int `koanf:"shard_count"`

	// Timezone names the location calendar days are read in, e.g. "Asia/Seoul".
	Timezone string `koanf:"timezone"`

	// JobTimeoutMS bounds a single evaluation job.
	JobTimeoutMS int `koanf:"job_timeout_ms"`
}

// New creates a Config holding the defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		WorkerCount:  0,
		QueueSize:    1024,
		DedupeSize:   100_000,
		ShardCount:   16,
		Timezone:     "UTC",
		JobTimeoutMS: 5000,
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize < 0 {
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	if c.ShardCount <= 0 {
		return fmt.Errorf("%w: shard_count must be positive", ErrInvalidConfig)
	}
	if c.JobTimeoutMS <= 0 {
		return fmt.Errorf("%w: job_timeout_ms must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// JobTimeout returns JobTimeoutMS as a duration.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutMS) * time.Millisecond
}
