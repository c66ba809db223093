package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// fake driver that counts commits and rollbacks, optionally failing the
// first N commits with a given pq error code.
type fakeTxState struct {
	commits     int64
	rollbacks   int64
	failCommits int64
	failCode    string
}

type fakeDriver struct {
	state *fakeTxState
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{state: d.state}, nil
}

type fakeConn struct {
	state *fakeTxState
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{}, nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return &fakeTx{state: c.state}, nil
}

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return &fakeTx{state: c.state}, nil
}

type fakeTx struct {
	state *fakeTxState
}

func (t *fakeTx) Commit() error {
	call := atomic.AddInt64(&t.state.commits, 1)
	if call <= t.state.failCommits {
		code := t.state.failCode
		if code == "" {
			code = "40001"
		}
		return &pq.Error{Code: pq.ErrorCode(code)}
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	atomic.AddInt64(&t.state.rollbacks, 1)
	return nil
}

type fakeStmt struct{}

func (s *fakeStmt) Close() error {
	return nil
}

func (s *fakeStmt) NumInput() int {
	return -1
}

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, nil
}

var driverCounter uint64

func openFakeDB(t *testing.T, state *fakeTxState) *sqlx.DB {
	t.Helper()
	name := fmt.Sprintf("faketx-%d", atomic.AddUint64(&driverCounter, 1))
	sql.Register(name, &fakeDriver{state: state})
	sqlDB, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlx.NewDb(sqlDB, name)
}

func TestWithTxCommits(t *testing.T) {
	state := &fakeTxState{}
	xdb := openFakeDB(t, state)

	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.commits != 1 || state.rollbacks != 0 {
		t.Fatalf("expected commit=1 rollback=0, got %d/%d", state.commits, state.rollbacks)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	state := &fakeTxState{}
	xdb := openFakeDB(t, state)

	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return errors.New("boom") }); err == nil {
		t.Fatalf("expected error")
	}
	if state.rollbacks != 1 {
		t.Fatalf("expected rollback=1, got %d", state.rollbacks)
	}
}

func TestWithTxRetriesOnSerializationConflict(t *testing.T) {
	state := &fakeTxState{failCommits: 1}
	xdb := openFakeDB(t, state)

	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.commits != 2 {
		t.Fatalf("expected 2 commit attempts, got %d", state.commits)
	}
}

func TestWithTxRetryCapExceeded(t *testing.T) {
	state := &fakeTxState{failCommits: 10, failCode: "40P01"}
	xdb := openFakeDB(t, state)

	err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil })
	if err == nil {
		t.Fatalf("expected retry limit error")
	}
	if state.commits != 5 {
		t.Fatalf("expected 5 commit attempts, got %d", state.commits)
	}
}
