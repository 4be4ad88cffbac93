package rdbms

import (
	"context"
	"fmt"

	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
)

const sqlGatherTableStats = "begin dbms_stats.gather_table_stats(ownname => nvl(:1, user), tabname => :2); end;"

// GatherTableStats refreshes optimizer statistics for t.
func GatherTableStats(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable) error {
	var owner interface{}
	if schema := t.CatalogSchema(); schema != "" {
		owner = schema
	}
	if _, err := db.ExecContext(ctx, sqlGatherTableStats, owner, t.CatalogTable()); err != nil {
		return fmt.Errorf("error gathering statistics for %v: %w", t, err)
	}
	log.Info("gathered optimizer statistics for ", t)
	return nil
}
