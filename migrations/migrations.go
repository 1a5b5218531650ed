// Package migrations embeds the SQL schema migrations for the SQLite slot store.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
