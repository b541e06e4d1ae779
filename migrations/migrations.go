// Package migrations embeds the SQL schema migrations applied by the migrate
// command and the server's optional auto-migrate step.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
