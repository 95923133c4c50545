package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"

	currency "github.com/malusev998/currency-converter"
)

type badgerStorage struct {
	db       *badger.DB
	ttl      time.Duration
	provider Provider
}

func NewBadgerStorage(c BadgerConfig) (currency.Storage, error) {
	provider := Badger
	options := badger.DefaultOptions(c.Path)

	if c.InMemory {
		provider = Memory
		options = badger.DefaultOptions("").WithInMemory(true)
	}

	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}

	return badgerStorage{db: db, ttl: c.TTL, provider: provider}, nil
}

func (b badgerStorage) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return string(value), true, nil
}

func (b badgerStorage) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+key), []byte(value))

		if b.ttl > 0 {
			entry = entry.WithTTL(b.ttl)
		}

		return txn.SetEntry(entry)
	})
}

func (b badgerStorage) Migrate(context.Context) error {
	return nil
}

func (b badgerStorage) Drop(context.Context) error {
	return b.db.DropPrefix([]byte(keyPrefix))
}

func (b badgerStorage) Close() error {
	return b.db.Close()
}

func (b badgerStorage) GetStorageProviderName() string {
	return string(b.provider)
}
