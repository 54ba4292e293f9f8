// Package migrations embeds the SQL migrations applied by the postgres
// store backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
