package application

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shareswap/poold/internal/core/ports"
	"github.com/shareswap/poold/internal/infrastructure/pubsub"
	dbbadger "github.com/shareswap/poold/internal/infrastructure/storage/db/badger"
	"github.com/shareswap/poold/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/shareswap/poold/internal/infrastructure/storage/db/pg"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
	DBPostgres = "postgres"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
		DBPostgres: {},
	}
)

type Config struct {
	DBType  string
	Datadir string

	// Postgres is used only if DBType is DBPostgres.
	Postgres postgresdb.DbConfig

	FeeBps         uint16
	ProtocolFeeBps uint16
	Operator       string

	WebhookTimeout time.Duration
	WebhookRps     int

	repo   ports.RepoManager
	pubsub PubSubService
	pool   PoolService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("db type not supported")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.pubsubService(); err != nil {
		return err
	}
	if _, err := c.poolService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) PoolService() PoolService {
	svc, _ := c.poolService()
	return svc
}

// Close releases the db and the webhook store.
func (c *Config) Close() {
	if c.pubsub != nil {
		c.pubsub.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			logger := log.New()
			logger.SetLevel(log.GetLevel())
			repoManager, err := dbbadger.NewRepoManager(
				filepath.Join(c.Datadir, "db"), logger,
			)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBPostgres:
			repoManager, err := postgresdb.NewRepoManager(c.Postgres)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		var store ports.SubscriptionStore
		var err error
		if c.DBType != DBInMemory {
			store, err = pubsub.NewBadgerStore(
				filepath.Join(c.Datadir, "pubsub"), log.New(),
			)
		} else {
			store = pubsub.NewInMemoryStore()
		}
		if err != nil {
			return nil, err
		}

		svc, err := pubsub.NewService(store, c.WebhookTimeout, c.WebhookRps)
		if err != nil {
			return nil, err
		}
		c.pubsub = NewPubSubService(svc)
	}
	return c.pubsub, nil
}

func (c *Config) poolService() (PoolService, error) {
	if c.pool == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsubSvc, err := c.pubsubService()
		if err != nil {
			return nil, err
		}
		pool, err := NewPoolService(
			repo, pubsubSvc, c.FeeBps, c.ProtocolFeeBps, c.Operator,
		)
		if err != nil {
			return nil, err
		}
		c.pool = pool
	}
	return c.pool, nil
}
