// Package migrations embeds the chance store schema for each supported
// database, so a single binary can create or upgrade its own store.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql
var sqlite embed.FS

//go:embed postgres/*.sql
var postgres embed.FS

// ForDriver returns the migration files for a sqlx driver name, rooted so
// that each .sql file sits at the top level.
func ForDriver(driver string) (fs.FS, error) {
	switch driver {
	case "sqlite3":
		return fs.Sub(sqlite, "sqlite")
	case "postgres":
		return fs.Sub(postgres, "postgres")
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
