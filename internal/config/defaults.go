package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTerminalTimeout    = 30 * time.Second
	DefaultTerminalMaxRetries = 3
	DefaultIngestConcurrency  = 8
	DefaultIngestZone         = "210"
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
)

func (c *ServiceConfig) applyDefaults() {
	// Terminal defaults
	if c.Terminal.Timeout == 0 {
		c.Terminal.Timeout = DefaultTerminalTimeout
	}
	if c.Terminal.MaxRetries == 0 {
		c.Terminal.MaxRetries = DefaultTerminalMaxRetries
	}

	// Ingest defaults
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = DefaultIngestConcurrency
	}
	if c.Ingest.DefaultZone == "" {
		c.Ingest.DefaultZone = DefaultIngestZone
	}

	// Database defaults
	applyDBDefaults(&c.Mirror.Postgres)
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
