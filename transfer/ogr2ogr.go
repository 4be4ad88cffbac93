package transfer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abys/geosync/config"
	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/abys/geosync/rdbms"
	"github.com/abys/geosync/rdbms/shared"
	om "github.com/cevaris/ordered_map"
)

// Mode is the way rows are written to the destination.
type Mode int

const (
	// ModeAppend loads into an existing table, keeping its definition.
	ModeAppend Mode = iota
	// ModeCreate lets ogr2ogr create the table, without indexes.
	ModeCreate
)

func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "append"
}

// ModeForTableState maps the inspected table state onto the one transfer mode used for the run.
func ModeForTableState(s rdbms.TableState) Mode {
	if s == rdbms.TableExists {
		return ModeAppend
	}
	return ModeCreate
}

// Request holds everything needed to build an ogr2ogr invocation.
type Request struct {
	Ogr2ogrPath string
	Source      shared.ConnectionDetails
	Destination shared.ConnectionDetails
	Table       rdbms.SchemaTable
	Query       string
	Geometry    config.Geometry
	BatchSize   int
	// LayerOptions are extra K:V,K:V layer creation options used in create mode.
	LayerOptions string
}

// NewRequest builds a Request from a resolved configuration.
func NewRequest(cfg *config.Config) Request {
	return Request{
		Ogr2ogrPath:  cfg.Ogr2ogrPath,
		Source:       cfg.Source,
		Destination:  cfg.Destination,
		Table:        cfg.Table,
		Query:        cfg.Job.Query(),
		Geometry:     cfg.Job.Geometry,
		BatchSize:    cfg.BatchSize,
		LayerOptions: cfg.Job.LayerOptions,
	}
}

// LayerCreationOptions returns the ordered -lco options used in create mode.
// Job options are applied last; a job option with a default key replaces its value in place.
func (r Request) LayerCreationOptions() *om.OrderedMap {
	o := om.NewOrderedMap()
	o.Set("GEOMETRY_NAME", strings.ToUpper(r.Geometry.Destination))
	o.Set("SRID", strconv.Itoa(r.Geometry.SRID))
	o.Set("DIM", strconv.Itoa(r.Geometry.Dimension))
	o.Set("PRECISION", "NO")
	o.Set("SPATIAL_INDEX", "NO")
	o.Set("LAUNDER", "YES")
	extra := helper.TokensToOrderedMap(r.LayerOptions)
	iter := extra.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		o.Set(strings.ToUpper(fmt.Sprintf("%v", kv.Key)), kv.Value)
	}
	return o
}

// Command builds the ogr2ogr Command for mode.
// The PostgreSQL password is passed in the child environment. The Oracle password is part of the
// OCI datasource and is masked in Display.
func (r Request) Command(mode Mode) (Command, error) {
	if r.Query == "" {
		return Command{}, fmt.Errorf("missing source query")
	}
	pg, err := shared.NewPostgresConnectionDetails(r.Source)
	if err != nil {
		return Command{}, err
	}
	path := r.Ogr2ogrPath
	if path == "" {
		path = constants.DefaultOgr2ogrPath
	}
	batch := r.BatchSize
	if batch <= 0 {
		batch = constants.DefaultBatchSize
	}
	ora := shared.NewOracleConnectionDetails(r.Destination)
	args := []string{
		"-f", constants.OgrDriverOracle,
		ora.OgrDatasource(),
		pg.OgrDatasource(),
		"-sql", r.Query,
		"-nln", r.Table.String(),
		"-a_srs", fmt.Sprintf("EPSG:%v", r.Geometry.SRID),
		"-gt", strconv.Itoa(batch),
	}
	switch mode {
	case ModeAppend:
		args = append(args, "-append", "-skipfailures")
	case ModeCreate:
		iter := r.LayerCreationOptions().IterFunc()
		for kv, ok := iter(); ok; kv, ok = iter() {
			args = append(args, "-lco", fmt.Sprintf("%v=%v", kv.Key, kv.Value))
		}
		if r.Geometry.Type != "" {
			args = append(args, "-nlt", strings.ToUpper(r.Geometry.Type))
		}
	default:
		return Command{}, fmt.Errorf("unsupported transfer mode %v", mode)
	}
	env := map[string]string{
		constants.EnvVarPgPasswordChild: r.Source.Password,
	}
	if r.Source.Encoding != "" {
		env[constants.EnvVarPgClientEncoding] = r.Source.Encoding
	}
	if r.Destination.Encoding != "" {
		env[constants.EnvVarNlsLang] = r.Destination.Encoding
	}
	return Command{
		Path:    path,
		Args:    args,
		Env:     env,
		Display: r.redact(displayCommand(path, args)),
	}, nil
}

// redact masks both passwords.
func (r Request) redact(s string) string {
	s = helper.Redact(s, r.Destination.Password)
	return helper.Redact(s, r.Source.Password)
}

// displayCommand joins args for logging, quoting those with spaces.
func displayCommand(path string, args []string) string {
	b := strings.Builder{}
	b.WriteString(path)
	for _, a := range args {
		b.WriteString(" ")
		if strings.ContainsAny(a, " '\"") {
			b.WriteString(`"` + strings.ReplaceAll(a, `"`, `\"`) + `"`)
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}
