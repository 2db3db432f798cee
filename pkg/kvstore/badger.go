package kvstore

import (
	"github.com/dgraph-io/badger/v4"
)

type BadgerStore struct {
	db     *badger.DB
	prefix string
}

func NewBadgerStore(path string, prefix string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, prefix: prefix}, nil
}

func (b *BadgerStore) fullKey(k string) (string, error) {
	if k == "" {
		return "", ErrKeyEmpty
	}
	if b.prefix != "" {
		return b.prefix + "/" + k, nil
	}
	return k, nil
}

func (b *BadgerStore) Get(key string) ([]byte, error) {
	k, err := b.fullKey(key)
	if err != nil {
		return nil, err
	}

	var valCopy []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrKeyNotFound
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		valCopy = val
		return nil
	})
	return valCopy, err
}

func (b *BadgerStore) Set(key string, value []byte) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), value)
	})
}

// SetIfAbsent performs the read and the write inside a single badger
// transaction, so two near-simultaneous callers cannot both observe
// "not set" and both write.
func (b *BadgerStore) SetIfAbsent(key string, value []byte) (bool, error) {
	k, err := b.fullKey(key)
	if err != nil {
		return false, err
	}

	for {
		var set bool
		err = b.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get([]byte(k))
			if err == nil {
				set = false
				return nil
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
			set = true
			return txn.Set([]byte(k), value)
		})
		if err == badger.ErrConflict {
			// Lost the race against a concurrent writer; re-read.
			continue
		}
		if err != nil {
			return false, err
		}
		return set, nil
	}
}

func (b *BadgerStore) Delete(key string) error {
	k, err := b.fullKey(key)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(k))
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
