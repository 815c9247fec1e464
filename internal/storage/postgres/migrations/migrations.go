// migrations содержит SQL-миграции схемы профилей (goose).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
