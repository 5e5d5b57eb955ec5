package utils

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"
)

func TestPostgresPoolConfig_Defaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns != 25 || c.MaxIdleConns != 25 {
		t.Fatalf("unexpected pool defaults: %+v", c)
	}
	if c.ConnMaxLifetime != 30*time.Minute || c.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout defaults: %+v", c)
	}
}

// Minimal driver that only supports Begin/Commit/Rollback, enough to
// observe transaction outcomes.
type txRecorder struct {
	commits   int
	rollbacks int
}

type stubDriver struct{ rec *txRecorder }

func (d stubDriver) Open(string) (driver.Conn, error) { return stubConn{d.rec}, nil }

type stubConn struct{ rec *txRecorder }

func (c stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c stubConn) Close() error                        { return nil }
func (c stubConn) Begin() (driver.Tx, error)           { return stubTx{c.rec}, nil }

type stubTx struct{ rec *txRecorder }

func (t stubTx) Commit() error   { t.rec.commits++; return nil }
func (t stubTx) Rollback() error { t.rec.rollbacks++; return nil }

func TestWithTx_CommitAndRollback(t *testing.T) {
	rec := &txRecorder{}
	sql.Register("txstub", stubDriver{rec: rec})
	db, err := sql.Open("txstub", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := WithTx(ctx, db, nil, func(context.Context, *sql.Tx) error { return nil }); err != nil {
		t.Fatalf("with tx: %v", err)
	}
	if rec.commits != 1 || rec.rollbacks != 0 {
		t.Fatalf("expected one commit, got %+v", rec)
	}

	boom := errors.New("boom")
	if err := WithTx(ctx, db, nil, func(context.Context, *sql.Tx) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error surfaced, got %v", err)
	}
	if rec.commits != 1 || rec.rollbacks != 1 {
		t.Fatalf("expected rollback after fn error, got %+v", rec)
	}
}

func TestPostgresPoolConfig_ExplicitValuesKept(t *testing.T) {
	c := PostgresPoolConfig{MaxOpenConns: 5, PingTimeout: time.Second}.withDefaults()
	if c.MaxOpenConns != 5 {
		t.Fatalf("expected explicit MaxOpenConns kept, got %d", c.MaxOpenConns)
	}
	if c.PingTimeout != time.Second {
		t.Fatalf("expected explicit PingTimeout kept, got %v", c.PingTimeout)
	}
}
