// Package migrations embeds the schema of the sql-backed slots, one
// subdirectory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
