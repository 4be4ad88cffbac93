package shared

import (
	"context"
)

// Connector is the database access used by the sync operations.
// Oracle connections are served by relloyd/go-sql while PostgreSQL uses database/sql.
type Connector interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*HpRows, error)
	PingContext(ctx context.Context) error
	Close()
	GetType() string
}

// Result is satisfied by the results of both sql packages.
type Result interface {
	RowsAffected() (int64, error)
}

// rows is satisfied by the row sets of both sql packages.
type rows interface {
	Close() error
	Err() error
	Next() bool
	Scan(dest ...interface{}) error
}
