package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) Row         { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}
func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) Row         { return nil }
func (d *fakeDB) Ping(context.Context) error                           { return nil }
func (d *fakeDB) Close() error                                         { return nil }
func (d *fakeDB) Begin(context.Context) (Tx, error)                    { return d.tx, nil }
func (d *fakeDB) SQLDB() *sql.DB                                       { return nil }

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	err := NewTransactor(db).InTx(context.Background(), func(q Querier) error {
		if q == nil {
			t.Fatalf("expected querier")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !db.tx.committed || db.tx.rolledBack {
		t.Fatalf("expected commit without rollback, got committed=%v rolledBack=%v", db.tx.committed, db.tx.rolledBack)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	boom := errors.New("boom")
	err := NewTransactor(db).InTx(context.Background(), func(Querier) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if db.tx.committed || !db.tx.rolledBack {
		t.Fatalf("expected rollback without commit")
	}
}

func TestInTx_RollsBackOnCommitError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	err := NewTransactor(db).InTx(context.Background(), func(Querier) error { return nil })
	if err == nil {
		t.Fatalf("expected commit error")
	}
	if !db.tx.rolledBack {
		t.Fatalf("expected rollback after failed commit")
	}
}
