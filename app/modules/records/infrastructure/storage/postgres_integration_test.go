//go:build integration

package recordsstorage

import (
	"context"
	"testing"

	recordsdb "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupPostgres starts a throwaway Postgres and returns its DSN.
func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ghostlog"),
		postgres.WithUsername("ghostlog"),
		postgres.WithPassword("ghostlog"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestOpen_Postgres(t *testing.T) {
	dsn := setupPostgres(t)
	ctx := context.Background()
	cfg := config.StorageConfig{Driver: config.DriverPostgres, DSN: dsn}

	kv, err := Open(ctx, cfg, discard)
	require.NoError(t, err)
	roundTrip(t, kv)

	require.NoError(t, kv.Put(ctx, "ghostlog.snapshot", []byte(`{"runs":[]}`)))
	require.NoError(t, kv.Close())

	// A second open re-runs migrations against the existing schema and sees the data.
	kv, err = Open(ctx, cfg, discard)
	require.NoError(t, err)
	defer kv.Close()
	got, err := kv.Get(ctx, "ghostlog.snapshot")
	require.NoError(t, err)
	assert.JSONEq(t, `{"runs":[]}`, string(got))

	require.NoError(t, kv.Delete(ctx, "ghostlog.snapshot"))
	_, err = kv.Get(ctx, "ghostlog.snapshot")
	assert.ErrorIs(t, err, recordsdb.ErrNotFound)
}
