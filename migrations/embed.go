// Package migrations embeds SQL migration files into the binary, so the
// registry can migrate its audit database without SQL files on disk.
package migrations

import (
	"embed"

	"github.com/verdantech/greenhouse-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
