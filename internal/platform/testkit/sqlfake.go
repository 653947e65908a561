package testkit

import (
	"context"
	"errors"
	"reflect"

	"forumlake/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// FakeQuerier serves canned rows to repo tests without a database.
// Each canned value must already carry the scan destination's element type;
// a nil value leaves the destination at its zero value
type FakeQuerier struct {
	Rows     [][]any
	QueryErr error
	ExecErr  error
	ExecN    int64

	LastSQL  string
	LastArgs []any
}

// Exec implements store.RowQuerier
func (f *FakeQuerier) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.LastSQL, f.LastArgs = sql, args
	if f.ExecErr != nil {
		return nil, f.ExecErr
	}
	return fakeCommandTag{n: f.ExecN}, nil
}

// Query implements store.RowQuerier
func (f *FakeQuerier) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.LastSQL, f.LastArgs = sql, args
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	return &fakeRowSet{data: f.Rows}, nil
}

// QueryRow implements store.RowQuerier; an empty row set scans as pgx.ErrNoRows
func (f *FakeQuerier) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.LastSQL, f.LastArgs = sql, args
	return &fakeSingleRow{q: f}
}

type fakeCommandTag struct{ n int64 }

func (t fakeCommandTag) String() string      { return "EXEC" }
func (t fakeCommandTag) RowsAffected() int64 { return t.n }

type fakeRowSet struct {
	data [][]any
	pos  int
}

func (r *fakeRowSet) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRowSet) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("fake scan: column count mismatch")
	}
	for i, d := range dest {
		if row[i] == nil {
			continue
		}
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return errors.New("fake scan: destination must be a non-nil pointer")
		}
		sv := reflect.ValueOf(row[i])
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return errors.New("fake scan: cannot assign " + sv.Type().String() + " to " + dv.Elem().Type().String())
		}
		dv.Elem().Set(sv)
	}
	return nil
}

func (r *fakeRowSet) Err() error        { return nil }
func (r *fakeRowSet) Close()            {}
func (r *fakeRowSet) Columns() []string { return nil }

type fakeSingleRow struct{ q *FakeQuerier }

func (r *fakeSingleRow) Scan(dest ...any) error {
	if r.q.QueryErr != nil {
		return r.q.QueryErr
	}
	if len(r.q.Rows) == 0 {
		return pgx.ErrNoRows
	}
	rs := &fakeRowSet{data: r.q.Rows}
	rs.Next()
	return rs.Scan(dest...)
}
