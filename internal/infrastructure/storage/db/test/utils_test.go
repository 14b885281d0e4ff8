package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"testing"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	dbbadger "github.com/shareswap/poold/internal/infrastructure/storage/db/badger"
	"github.com/shareswap/poold/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

var (
	readOnly = true
	ctx      = context.Background()
)

type repoManager struct {
	Name string
	ports.RepoManager
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, readOnly, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, !readOnly, query)
}

// createRepoManagers returns fresh repo managers for every supported db.
// Postgres is included only if POOLD_TEST_PG_HOST is set.
func createRepoManagers(t *testing.T) []repoManager {
	inmemoryRepoManager := inmemory.NewRepoManager()
	badgerRepoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)

	repoManagers := []repoManager{
		{"inmemory", inmemoryRepoManager},
		{"badger", badgerRepoManager},
	}
	if pgRepoManager := createPgRepoManager(t); pgRepoManager != nil {
		repoManagers = append(repoManagers, repoManager{"postgres", pgRepoManager})
	}

	t.Cleanup(func() {
		for _, r := range repoManagers {
			r.Close()
		}
	})
	return repoManagers
}

func makeRandomPool(t *testing.T) *domain.Pool {
	pool, err := domain.NewPool(
		randomHex(32), randomHex(32), randomHex(33),
		domain.DefaultFeeBps, domain.DefaultProtocolFeeBps,
	)
	require.NoError(t, err)
	return pool
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	rand.Read(b)
	return b
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}
