// Package migrations embeds the goose migration files for the hosted
// waitlist database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
