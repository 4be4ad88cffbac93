package rdbms

import (
	"context"
	"fmt"

	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
)

const (
	sqlUserTableCount = "select count(*) from user_tables where table_name = :1"
	sqlAllTableCount  = "select count(*) from all_tables where owner = :1 and table_name = :2"
)

// TableState is the existence of the destination table as seen by the catalog.
type TableState int

const (
	TableAbsent TableState = iota
	TableExists
)

func (s TableState) String() string {
	if s == TableExists {
		return "exists"
	}
	return "absent"
}

// InspectTable asks the Oracle catalog whether t exists.
// A count of 0 means absent and 1 means exists; any other count or error is returned as an error
// so the caller never picks a transfer mode on ambiguous evidence.
func InspectTable(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable) (TableState, error) {
	var n int64
	var err error
	if schema := t.CatalogSchema(); schema != "" {
		err = QueryScalar(ctx, db, sqlAllTableCount, &n, schema, t.CatalogTable())
	} else {
		err = QueryScalar(ctx, db, sqlUserTableCount, &n, t.CatalogTable())
	}
	if err != nil {
		return TableAbsent, fmt.Errorf("error reading catalog for table %v: %w", t, err)
	}
	log.Debug("catalog count for table ", t, " = ", n)
	switch n {
	case 0:
		return TableAbsent, nil
	case 1:
		return TableExists, nil
	default:
		return TableAbsent, fmt.Errorf("ambiguous catalog state for table %v: %v matching rows", t, n)
	}
}

// RowCount returns the number of rows in t.
func RowCount(ctx context.Context, db shared.Connector, t SchemaTable) (int64, error) {
	var n int64
	if err := QueryScalar(ctx, db, "select count(*) from "+t.String(), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// QueryRowCount returns the number of rows produced by query.
func QueryRowCount(ctx context.Context, db shared.Connector, query string) (int64, error) {
	var n int64
	if err := QueryScalar(ctx, db, "select count(*) from ("+query+") src", &n); err != nil {
		return 0, err
	}
	return n, nil
}
