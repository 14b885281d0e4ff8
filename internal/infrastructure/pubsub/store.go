package pubsub

import (
	"bytes"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/shareswap/poold/internal/core/ports"
)

var (
	subsBucket        = []byte("subscriptions")
	subsByEventBucket = []byte("subscriptionsbyevent")

	// separator equivalent character is ÿ.
	// Should be fine to use such value since it's not used for Secret (jwt
	// base64-encoded token), nor for Endpoint (http url).
	separator = []byte{255}
	// bucketSeparator divides the bucket name from the key in badger.
	bucketSeparator = []byte{0}
)

// badgerStore is a bucket store where every key is prefixed by its bucket.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates if not exists) the badger db at the given
// path. If path is empty the db is kept in memory.
func NewBadgerStore(path string, logger badger.Logger) (ports.SubscriptionStore, error) {
	opts := badger.DefaultOptions(path)
	if len(path) <= 0 {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerStore{db}, nil
}

func (s *badgerStore) GetFromBucket(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bucketKey(bucket, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return value, err
}

func (s *badgerStore) GetAllFromBucket(bucket []byte) (map[string][]byte, error) {
	values := make(map[string][]byte)
	prefix := bucketKey(bucket, nil)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			key := bytes.TrimPrefix(item.KeyCopy(nil), prefix)
			values[string(key)] = value
		}
		return nil
	})
	return values, err
}

func (s *badgerStore) AddToBucket(bucket, key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bucketKey(bucket, key), value)
	})
}

func (s *badgerStore) RemoveFromBucket(bucket, key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(bucketKey(bucket, key))
	})
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

func bucketKey(bucket, key []byte) []byte {
	buf := make([]byte, 0, len(bucket)+len(bucketSeparator)+len(key))
	buf = append(buf, bucket...)
	buf = append(buf, bucketSeparator...)
	return append(buf, key...)
}

type inmemoryStore struct {
	buckets map[string]map[string][]byte
	lock    *sync.RWMutex
}

// NewInMemoryStore returns a bucket store that is lost at shutdown.
func NewInMemoryStore() ports.SubscriptionStore {
	return &inmemoryStore{
		buckets: make(map[string]map[string][]byte),
		lock:    &sync.RWMutex{},
	}
}

func (s *inmemoryStore) GetFromBucket(bucket, key []byte) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.buckets[string(bucket)][string(key)], nil
}

func (s *inmemoryStore) GetAllFromBucket(bucket []byte) (map[string][]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	values := make(map[string][]byte)
	for k, v := range s.buckets[string(bucket)] {
		values[k] = v
	}
	return values, nil
}

func (s *inmemoryStore) AddToBucket(bucket, key, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.buckets[string(bucket)]; !ok {
		s.buckets[string(bucket)] = make(map[string][]byte)
	}
	s.buckets[string(bucket)][string(key)] = value
	return nil
}

func (s *inmemoryStore) RemoveFromBucket(bucket, key []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.buckets[string(bucket)], string(key))
	return nil
}

func (s *inmemoryStore) Close() error {
	return nil
}
