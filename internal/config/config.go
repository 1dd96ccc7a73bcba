package config

import "time"

// ServiceConfig is the top-level configuration for the ingestion service.
type ServiceConfig struct {
	Store    StoreConfig    `yaml:"store"`
	Terminal TerminalConfig `yaml:"terminal"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Mirror   MirrorConfig   `yaml:"mirror"`
}

// StoreConfig locates the flat-file data store.
type StoreConfig struct {
	Root string `yaml:"root"`
}

// TerminalConfig holds market-data terminal API settings.
type TerminalConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// IngestConfig holds ingestion job settings.
type IngestConfig struct {
	Concurrency int    `yaml:"concurrency"`
	DefaultZone string `yaml:"default_zone"` // reference-data zone for prefix lookup
}

// MirrorConfig holds settings for the optional database mirror of the
// reference indices.
type MirrorConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
