package rdbms

import (
	"bytes"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
)

func newTestLogger(t *testing.T) (logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log, err := logger.NewLoggerWithOutput("test", "debug", false, buf)
	if err != nil {
		t.Fatal(err)
	}
	return log, buf
}

// newMockConnection returns an HpConnection of the given type backed by sqlmock.
func newMockConnection(t *testing.T, dbType string) (*shared.HpConnection, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("unable to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &shared.HpConnection{DbSql: db, DbType: dbType}, mock
}

func newMockOracle(t *testing.T) (*shared.HpConnection, sqlmock.Sqlmock) {
	return newMockConnection(t, constants.ConnectionTypeOracle)
}

func mustSchemaTable(t *testing.T, s string) SchemaTable {
	st, err := NewSchemaTable(s)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func toDriverValues(args []interface{}) []driver.Value {
	v := make([]driver.Value, len(args))
	for i, a := range args {
		v[i] = a
	}
	return v
}
