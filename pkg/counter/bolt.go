package counter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const boltKey = "notification"

// boltRecord is stored under boltKey
type boltRecord struct {
	ID int64
}

// Bolt keeps the counter in a bolthold key-value store
type Bolt struct {
	store *bolthold.Store
}

// NewBolt opens (or creates) bolt file at path
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create counter dir: %w", err)
	}
	store, err := bolthold.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt counter %s: %w", path, err)
	}
	return &Bolt{store: store}, nil
}

// Next advances the counter in a single bolt transaction
func (b *Bolt) Next(_ context.Context) (int64, error) {
	var res int64
	err := b.store.Bolt().Update(func(tx *bolt.Tx) error {
		var rec boltRecord
		if err := b.store.TxGet(tx, boltKey, &rec); err != nil && !errors.Is(err, bolthold.ErrNotFound) {
			return fmt.Errorf("get counter: %w", err)
		}
		rec.ID = Advance(rec.ID)
		if err := b.store.TxUpsert(tx, boltKey, &rec); err != nil {
			return fmt.Errorf("save counter: %w", err)
		}
		res = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return res, nil
}

// Close closes the underlying bolt file
func (b *Bolt) Close() error {
	return b.store.Close()
}
