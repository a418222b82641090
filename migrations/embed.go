// Package migrations embeds the SQL migration files so they can be applied
// by goose from cmd/migrate and the integration tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
