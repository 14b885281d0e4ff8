package db_test

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/shareswap/poold/internal/core/ports"
	postgresdb "github.com/shareswap/poold/internal/infrastructure/storage/db/pg"
	"github.com/stretchr/testify/require"
)

const truncateQuery = `TRUNCATE TABLE pool_event, supply, account, pool`

func pgConfig() postgresdb.DbConfig {
	return postgresdb.DbConfig{
		DbUser:     os.Getenv("POOLD_TEST_PG_USER"),
		DbPassword: os.Getenv("POOLD_TEST_PG_PASSWORD"),
		DbHost:     os.Getenv("POOLD_TEST_PG_HOST"),
		DbPort:     getEnvInt("POOLD_TEST_PG_PORT", 5432),
		DbName:     os.Getenv("POOLD_TEST_PG_NAME"),
	}
}

// createPgRepoManager returns a repo manager on an emptied test db, or nil if
// no test db is configured.
func createPgRepoManager(t *testing.T) ports.RepoManager {
	cfg := pgConfig()
	if len(cfg.DbHost) <= 0 {
		return nil
	}

	repoManager, err := postgresdb.NewRepoManager(cfg)
	require.NoError(t, err)

	conn, err := pgx.Connect(ctx, cfg.DataSource())
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, truncateQuery)
	require.NoError(t, err)

	return repoManager
}
