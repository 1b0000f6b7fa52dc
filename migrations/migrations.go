// Package migrations embeds the SQL schema migrations for the policy hub
// database. Files run in lexical order; see pkg/database.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
