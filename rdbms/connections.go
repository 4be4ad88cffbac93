package rdbms

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
	_ "github.com/lib/pq"
	_ "github.com/relloyd/go-oci8"
	relloyd "github.com/relloyd/go-sql/database/sql"
)

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
// The connection is not tested; see Probe.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	switch c.Type {
	case constants.ConnectionTypeOracle:
		db, err = NewOracleConnection(log, c)
	case constants.ConnectionTypePostgres:
		db, err = NewPostgresConnection(log, c)
	default:
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}

// NewOracleConnection opens Oracle via go-oci8.
// NLS_LANG must be in the process environment before OCI initialises, so it is exported here.
func NewOracleConnection(log logger.Logger, c shared.ConnectionDetails) (shared.Connector, error) {
	if c.Encoding != "" {
		if err := os.Setenv(constants.EnvVarNlsLang, c.Encoding); err != nil {
			return nil, fmt.Errorf("error setting %v: %w", constants.EnvVarNlsLang, err)
		}
	}
	oc := shared.NewOracleConnectionDetails(c)
	dsn, err := oc.DSN()
	if err != nil {
		return nil, err
	}
	log.Debug("opening Oracle connection ", oc)
	conn := &shared.HpConnection{DbType: constants.ConnectionTypeOracle}
	conn.DbRelloyd, err = relloyd.Open("oci8", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening Oracle connection %v: %w", oc, err)
	}
	conn.DbRelloyd.SetMaxOpenConns(1) // one session so that DDL and commit run together.
	return conn, nil
}

// NewPostgresConnection opens PostgreSQL via lib/pq.
func NewPostgresConnection(log logger.Logger, c shared.ConnectionDetails) (shared.Connector, error) {
	pc, err := shared.NewPostgresConnectionDetails(c)
	if err != nil {
		return nil, err
	}
	log.Debug("opening PostgreSQL connection ", pc)
	conn := &shared.HpConnection{DbType: constants.ConnectionTypePostgres}
	conn.DbSql, err = sql.Open(pc.Driver(), pc.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening PostgreSQL connection %v: %w", pc, err)
	}
	return conn, nil
}

// probeSql returns a trivial read-only query for the database type.
func probeSql(dbType string) string {
	if dbType == constants.ConnectionTypeOracle {
		return "select 1 from dual"
	}
	return "select 1"
}

// Probe pings db and runs a trivial query that must return 1.
func Probe(ctx context.Context, log logger.Logger, db shared.Connector) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to ping %v database: %w", db.GetType(), err)
	}
	var one int64
	if err := QueryScalar(ctx, db, probeSql(db.GetType()), &one); err != nil {
		return fmt.Errorf("probe query failed on %v database: %w", db.GetType(), err)
	}
	if one != 1 {
		return fmt.Errorf("probe query on %v database returned %v", db.GetType(), one)
	}
	log.Debug("probe succeeded for ", db.GetType(), " database")
	return nil
}
