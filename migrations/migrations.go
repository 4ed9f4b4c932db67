// Package migrations bundles schema migration files at compile time so a
// single disku binary deploys without external file dependencies.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
