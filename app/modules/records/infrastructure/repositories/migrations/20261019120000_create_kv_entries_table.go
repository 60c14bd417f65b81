package migrations

import (
	"context"
	"fmt"

	recordsdb "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().Model((*recordsdb.Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create kv_entries table: %w", err)
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewDropTable().Model((*recordsdb.Entry)(nil)).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop kv_entries table: %w", err)
			}
			return nil
		},
	)
}
