package main

import (
	"fmt"
	"strings"

	recordsstorage "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/storage"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// withMigrator opens the SQL store without applying migrations.
func withMigrator(c *cli.Context, fn func(*migrate.Migrator) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	switch cfg.Storage.Driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return cli.Exit(fmt.Sprintf("storage driver %q has no migrations", cfg.Storage.Driver), 2)
	}
	db, err := recordsstorage.OpenBun(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(recordsstorage.NewMigrator(db))
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations for the sqlite and postgres drivers",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						return m.Init(c.Context)
					})
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						if err := m.Init(c.Context); err != nil {
							return err
						}
						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "No new migrations to run")
							return nil
						}
						fmt.Fprintf(c.App.Writer, "Migrated to %s\n", group)
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "No groups to roll back")
							return nil
						}
						fmt.Fprintf(c.App.Writer, "Rolled back %s\n", group)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Migrations: %s\n", ms)
						fmt.Fprintf(c.App.Writer, "Applied: %s\n", ms.Applied())
						fmt.Fprintf(c.App.Writer, "Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), "_")
					if name == "" {
						return cli.Exit("create_sql requires a migration name", 2)
					}
					return withMigrator(c, func(m *migrate.Migrator) error {
						files, err := m.CreateSQLMigrations(c.Context, name)
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Fprintf(c.App.Writer, "Created migration %s (%s)\n", mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
		},
	}
}
