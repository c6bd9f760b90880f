// Package migrations embeds the SQL schema migrations so the binary carries
// its own schema and needs no migration directory at runtime.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
