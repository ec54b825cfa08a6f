// Package migrations holds the schema, embedded into the server binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
