// Package db provides the embedded database schema and seed fixture.
package db

import _ "embed"

// Schema contains the DDL statements for all stub backend tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedCatalog is the default fixture of games and accounts.
//
//go:embed seed/catalog.json
var SeedCatalog []byte
