package service

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubDriver is a minimal database/sql driver that supports only
// transaction begin/commit/rollback. It lets transactional service paths
// run against mocked stores without a real database: the stores under test
// ignore the *sql.Tx they are handed.
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return &stubConn{}, nil
}

type stubConn struct{}

func (*stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not execute statements")
}

func (*stubConn) Close() error {
	return nil
}

func (*stubConn) Begin() (driver.Tx, error) {
	return stubTx{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error {
	return nil
}

func (stubTx) Rollback() error {
	return nil
}

func init() {
	sql.Register("stubdb", stubDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("stubdb", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
