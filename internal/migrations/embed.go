// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// InitialSQL creates the parse-result index. It is safe to apply more than
// once.
//
//go:embed sql/001_initial.sql
var InitialSQL string
