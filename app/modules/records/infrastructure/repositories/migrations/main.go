package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema steps for the key-value table.
var Migrations = migrate.NewMigrations()
