// Package migrations embeds the web store schema.
package migrations

import "embed"

// FS holds the ordered web store migrations.
//
//go:embed *.sql
var FS embed.FS
