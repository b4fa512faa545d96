// Package migrations содержит SQL миграции goose, общие для Postgres и SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
