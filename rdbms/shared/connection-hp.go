package shared

import (
	"context"
	"database/sql"
	"errors"

	relloyd "github.com/relloyd/go-sql/database/sql"
)

var errNotConfigured = errors.New("HpConnection was not configured correctly: both DbSql and DbRelloyd are missing")

// HpConnection wraps either a database/sql handle or a relloyd/go-sql handle (used by go-oci8).
// Exactly one of DbRelloyd or DbSql is set.
type HpConnection struct {
	DbRelloyd *relloyd.DB
	DbSql     *sql.DB
	DbType    string
}

func (c *HpConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	switch {
	case c.DbRelloyd != nil:
		return c.DbRelloyd.ExecContext(ctx, query, args...)
	case c.DbSql != nil:
		return c.DbSql.ExecContext(ctx, query, args...)
	}
	return nil, errNotConfigured
}

// QueryContext returns rows that must be closed by the caller. Rows are nil on error.
func (c *HpConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error) {
	var (
		r   rows
		err error
	)
	switch {
	case c.DbRelloyd != nil:
		var rr *relloyd.Rows
		if rr, err = c.DbRelloyd.QueryContext(ctx, query, args...); err == nil {
			r = rr
		}
	case c.DbSql != nil:
		var rs *sql.Rows
		if rs, err = c.DbSql.QueryContext(ctx, query, args...); err == nil {
			r = rs
		}
	default:
		return nil, errNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &HpRows{rows: r}, nil
}

func (c *HpConnection) PingContext(ctx context.Context) error {
	switch {
	case c.DbRelloyd != nil:
		return c.DbRelloyd.PingContext(ctx)
	case c.DbSql != nil:
		return c.DbSql.PingContext(ctx)
	}
	return errNotConfigured
}

func (c *HpConnection) Close() {
	if c.DbRelloyd != nil {
		_ = c.DbRelloyd.Close()
	}
	if c.DbSql != nil {
		_ = c.DbSql.Close()
	}
}

func (c *HpConnection) GetType() string {
	return c.DbType
}

// SqlDB returns the native handle, or nil when the connection is served by relloyd/go-sql.
func (c *HpConnection) SqlDB() *sql.DB {
	return c.DbSql
}

// HpRows is the row set of either sql package.
type HpRows struct {
	rows
}
