package admin

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package: the ban
// columns on the users table and the sessions table.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
