package database

import (
	"context"
	"errors"
	"fmt"
)

// Transactor runs a unit of work. fn's querier is only valid until fn
// returns; the work is committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(q Querier) error) error
}

type txRunner struct {
	db DB
}

func NewTransactor(db DB) Transactor {
	return &txRunner{db: db}
}

func (r *txRunner) InTx(ctx context.Context, fn func(q Querier) error) (err error) {
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
