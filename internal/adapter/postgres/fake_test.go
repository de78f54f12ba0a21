package postgres

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	decimalZero = decimal.Zero
	epoch       = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

type call struct {
	sql  string
	args []any
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return errors.New("fakeRow: column count mismatch")
	}
	for i, v := range r.vals {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// fakeTx records every statement and answers from the exec and row hooks.
type fakeTx struct {
	calls      []call
	exec       func(sql string, args []any) (CommandTag, error)
	row        func(sql string, args []any) Row
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	t.calls = append(t.calls, call{sql, args})
	return nil, errors.New("fakeTx: Query not supported")
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	t.calls = append(t.calls, call{sql, args})
	if t.row == nil {
		return fakeRow{err: errors.New("fakeTx: unexpected QueryRow")}
	}
	return t.row(sql, args)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	t.calls = append(t.calls, call{sql, args})
	if t.exec == nil {
		return fakeTag(1), nil
	}
	return t.exec(sql, args)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// executed returns the recorded calls whose statement contains fragment.
func (t *fakeTx) executed(fragment string) []call {
	var out []call
	for _, c := range t.calls {
		if strings.Contains(c.sql, fragment) {
			out = append(out, c)
		}
	}
	return out
}

// fakeDB routes everything through a single fakeTx.
type fakeDB struct {
	tx *fakeTx
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return db.tx.Query(ctx, sql, args...)
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return db.tx.QueryRow(ctx, sql, args...)
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return db.tx.Exec(ctx, sql, args...)
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) { return db.tx, nil }
func (db *fakeDB) Ping(ctx context.Context) error       { return nil }
func (db *fakeDB) Close()                               {}
