package rdbms

import (
	"context"
	"fmt"
	"strings"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms/shared"
)

const (
	sqlGeomMetadataCount  = "select count(*) from user_sdo_geom_metadata where table_name = :1 and column_name = :2"
	sqlGeomMetadataInsert = `insert into user_sdo_geom_metadata (table_name, column_name, diminfo, srid) values (:1, :2,
mdsys.sdo_dim_array(mdsys.sdo_dim_element('X', :3, :4, :5), mdsys.sdo_dim_element('Y', :6, :7, :8)), :9)`
)

// GeometryMetadata holds the values registered in user_sdo_geom_metadata.
type GeometryMetadata struct {
	Column    string
	SRID      int
	MinX      float64
	MaxX      float64
	MinY      float64
	MaxY      float64
	Tolerance float64
}

// SpatialIndexName returns <table>_GEOM_IDX bounded to the Oracle identifier length.
// The name is quoted when the table name is quoted.
func SpatialIndexName(t SchemaTable) string {
	name := helper.TruncateIdentifier(t.CatalogTable(), constants.SpatialIndexSuffix, constants.OracleMaxIdentifierLength)
	if strings.HasPrefix(t.GetTable(), `"`) {
		return `"` + name + `"`
	}
	return name
}

// EnsureGeometryMetadata registers the geometry column of t unless it is already registered.
// Only tables in the connected schema can be registered through user_sdo_geom_metadata.
func EnsureGeometryMetadata(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable, m GeometryMetadata) error {
	if t.CatalogSchema() != "" {
		log.Debug("skipping geometry metadata check for table ", t, " outside the connected schema")
		return nil
	}
	column := strings.ToUpper(m.Column)
	var n int64
	if err := QueryScalar(ctx, db, sqlGeomMetadataCount, &n, t.CatalogTable(), column); err != nil {
		return fmt.Errorf("error reading geometry metadata for %v: %w", t, err)
	}
	if n > 0 {
		log.Debug("geometry metadata already registered for ", t, ".", column)
		return nil
	}
	_, err := db.ExecContext(ctx, sqlGeomMetadataInsert,
		t.CatalogTable(), column,
		m.MinX, m.MaxX, m.Tolerance,
		m.MinY, m.MaxY, m.Tolerance,
		m.SRID)
	if err != nil {
		return fmt.Errorf("error registering geometry metadata for %v: %w", t, err)
	}
	if _, err := db.ExecContext(ctx, "commit"); err != nil {
		return fmt.Errorf("error committing geometry metadata for %v: %w", t, err)
	}
	log.Info("registered geometry metadata for ", t, ".", column, " with SRID ", m.SRID)
	return nil
}

// CreateSpatialIndex creates the spatial index on the geometry column of t.
// It returns created=false without error when the index already exists.
func CreateSpatialIndex(ctx context.Context, log logger.Logger, db shared.Connector, t SchemaTable, m GeometryMetadata) (created bool, err error) {
	if err := helper.ValidateIdentifier(m.Column); err != nil {
		return false, fmt.Errorf("bad geometry column: %w", err)
	}
	if err := EnsureGeometryMetadata(ctx, log, db, t, m); err != nil {
		return false, err
	}
	idx := t.Qualify(SpatialIndexName(t))
	ddl := fmt.Sprintf("create index %v on %v (%v) indextype is mdsys.spatial_index", idx, t, m.Column)
	log.Debug("creating spatial index using SQL: ", ddl)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		if IsAlreadyExists(err) {
			log.Info("spatial index ", idx, " already exists")
			return false, nil
		}
		return false, fmt.Errorf("error creating spatial index %v: %w", idx, err)
	}
	log.Info("created spatial index ", idx)
	return true, nil
}

// IsAlreadyExists returns true for the Oracle errors raised when an index name or column list is taken.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, constants.OraErrNameAlreadyUsed) || strings.Contains(msg, constants.OraErrColumnListIndexed)
}
