// Package migrations embeds the SQLite schema migrations.
package migrations

import "embed"

// FS holds the *.up.sql migrations, applied in lexical order.
//
//go:embed *.up.sql
var FS embed.FS
