// Package recordsstorage opens the key-value backend selected in the configuration.
package recordsstorage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	recordsdb "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories"
	"github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"
)

// SQLiteFilename is the database file created under the data directory.
const SQLiteFilename = "ghostlog.db"

// Open returns the KeyValueStore for cfg. SQL backends are migrated before use.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (recordsdb.KeyValueStore, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return recordsdb.NewMemoryStore(), nil
	case config.DriverFile:
		return recordsdb.NewFileStore(cfg.Dir)
	case config.DriverSQLite, config.DriverPostgres:
		db, err := OpenBun(cfg)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &recordsdb.BunStore{DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// OpenBun opens the SQL database behind the sqlite or postgres driver.
func OpenBun(cfg config.StorageConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		return bun.NewDB(pgdb, pgdialect.New()), nil
	case config.DriverSQLite:
		dsn, err := sqliteDSN(cfg)
		if err != nil {
			return nil, err
		}
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
		// A single writer keeps SQLite from returning SQLITE_BUSY under concurrent requests.
		sqldb.SetMaxOpenConns(1)
		if err := sqldb.Ping(); err != nil {
			_ = sqldb.Close()
			return nil, fmt.Errorf("ping sqlite db: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("driver %q is not SQL-backed", cfg.Driver)
	}
}

func sqliteDSN(cfg config.StorageConfig) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn, nil
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return "", fmt.Errorf("storage.dir is required for the sqlite driver")
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Clean(filepath.Join(cfg.Dir, SQLiteFilename))
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

// NewMigrator returns a migrator for the key-value schema.
func NewMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, migrations.Migrations)
}

// Migrate creates the migration tables if needed and applies pending migrations.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := NewMigrator(db)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if logger != nil && !group.IsZero() {
		logger.InfoContext(ctx, "Applied storage migrations", slog.String("group", group.String()))
	}
	return nil
}
