package postgresdb

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	insecureDataSourceTemplate = "postgresql://%s:%s@%s:%d/%s?sslmode=disable"

	uniqueViolation = "23505"

	txKey = "pgtx"
)

//go:embed migration/*.sql
var migrations embed.FS

// querier is implemented by both the connection pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type DbConfig struct {
	DbUser     string
	DbPassword string
	DbHost     string
	DbPort     int
	DbName     string
}

// DataSource returns the connection url of the db.
func (c DbConfig) DataSource() string {
	return fmt.Sprintf(
		insecureDataSourceTemplate,
		c.DbUser, c.DbPassword, c.DbHost, c.DbPort, c.DbName,
	)
}

type repoManager struct {
	pgxPool *pgxpool.Pool

	poolRepository    domain.PoolRepository
	eventRepository   domain.EventRepository
	accountRepository domain.AccountRepository
}

// NewRepoManager connects to the postgres db and applies the pending
// migrations.
func NewRepoManager(dbConfig DbConfig) (ports.RepoManager, error) {
	dataSource := dbConfig.DataSource()

	if err := migrateDb(dataSource); err != nil {
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	pgxPool, err := pgxpool.Connect(context.Background(), dataSource)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	rm := &repoManager{pgxPool: pgxPool}
	rm.poolRepository = NewPoolRepositoryImpl(rm.querier)
	rm.eventRepository = NewEventRepositoryImpl(rm.querier)
	rm.accountRepository = NewAccountRepositoryImpl(rm.querier)

	return rm, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

// RunTransaction runs handler within a serializable db transaction passed
// to the repositories through the context. Serialization failures are
// returned as errors and nothing is committed.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	if readOnly {
		opts.AccessMode = pgx.ReadOnly
	}

	tx, err := r.pgxPool.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Rollback is a no-op once the tx is committed.
	defer func() {
		err := tx.Rollback(ctx)
		switch {
		case errors.Is(err, pgx.ErrTxClosed):
			return
		case err != nil:
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	res, err := handler(context.WithValue(ctx, txKey, tx))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.pgxPool.Close()
}

// querier returns the transaction carried by ctx, if any, or the pool.
func (r *repoManager) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return r.pgxPool
}

func migrateDb(dataSource string) error {
	src, err := iofs.New(migrations, "migration")
	if err != nil {
		return err
	}

	pg := postgres.Postgres{}
	d, err := pg.Open(dataSource)
	if err != nil {
		return err
	}
	defer d.Close()

	m, err := migrate.NewWithInstance("iofs", src, "postgres", d)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
