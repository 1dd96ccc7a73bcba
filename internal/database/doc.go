// Package database mirrors the reference indices of a data store into
// PostgreSQL so that downstream SQL tooling can join against them. The
// flat files stay authoritative; the mirror is rebuilt by upsert on every
// ingestion run.
package database
