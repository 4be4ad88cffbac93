package rdbms

import (
	"context"
	"errors"
	"fmt"

	"github.com/abys/geosync/rdbms/shared"
)

// ErrNoRows is returned by QueryScalar when the query produced no row.
var ErrNoRows = errors.New("query returned no rows")

// QueryScalar runs sqltext and scans the single value of its first row into dest.
func QueryScalar(ctx context.Context, db shared.Connector, sqltext string, dest interface{}, args ...interface{}) error {
	rows, err := db.QueryContext(ctx, sqltext, args...)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error fetching row using SQL: '%v': %w", sqltext, err)
		}
		return ErrNoRows
	}
	if err := rows.Scan(dest); err != nil {
		return fmt.Errorf("error scanning row: %w", err)
	}
	return rows.Err()
}

// QueryEach runs sqltext and calls fn once per row with a scan function for that row.
func QueryEach(ctx context.Context, db shared.Connector, sqltext string, fn func(scan func(dest ...interface{}) error) error, args ...interface{}) error {
	rows, err := db.QueryContext(ctx, sqltext, args...)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		select { // quit if asked to, else continue...
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(rows.Scan); err != nil {
			return err
		}
	}
	return rows.Err()
}
