// Package migrations carries the goose SQL files for the postgres backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
