package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/anime-notifier/pkg/counter"
)

// DefaultCounter is the row name used for push notification ids
const DefaultCounter = "notification"

// CounterRepository keeps named counters in the counters table
type CounterRepository struct {
	db *sqlx.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Get returns the current value of the counter, 0 if it was never advanced
func (r *CounterRepository) Get(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.GetContext(ctx, &value, r.db.Rebind("SELECT value FROM counters WHERE name = ?"), name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", name, err)
	}
	return value, nil
}

// Advance moves the counter to the next id in a transaction and returns it
func (r *CounterRepository) Advance(ctx context.Context, name string) (int64, error) {
	var res int64
	err := withRetry(ctx, func() error {
		value, err := r.advanceTx(ctx, name)
		if err != nil {
			return err
		}
		res = value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return res, nil
}

func (r *CounterRepository) advanceTx(ctx context.Context, name string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var value int64
	err = tx.GetContext(ctx, &value, tx.Rebind("SELECT value FROM counters WHERE name = ?"), name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get counter %s: %w", name, err)
	}

	value = counter.Advance(value)
	query := tx.Rebind(`
		INSERT INTO counters (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := tx.ExecContext(ctx, query, name, value); err != nil {
		return 0, fmt.Errorf("set counter %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return value, nil
}

// Named binds the repository to a single counter name, satisfying counter.Counter
func (r *CounterRepository) Named(name string) counter.Counter {
	return namedCounter{repo: r, name: name}
}

type namedCounter struct {
	repo *CounterRepository
	name string
}

func (c namedCounter) Next(ctx context.Context) (int64, error) {
	return c.repo.Advance(ctx, c.name)
}
