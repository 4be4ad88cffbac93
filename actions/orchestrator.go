package actions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abys/geosync/config"
	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/rdbms"
	"github.com/abys/geosync/rdbms/shared"
	"github.com/abys/geosync/transfer"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// OpenFunc opens a database connection without testing it.
type OpenFunc func(log logger.Logger, c shared.ConnectionDetails) (shared.Connector, error)

// Orchestrator runs one sync job through the state machine.
// It is used once; create a new one per run.
type Orchestrator struct {
	Config   *config.Config
	Log      logger.Logger
	Runner   transfer.Runner
	Open     OpenFunc
	TestOnly bool // stop after the connectivity probe
	Now      func() time.Time

	state  State
	status RunStatus
	src    shared.Connector
	dst    shared.Connector
	lock   *rdbms.RunLock
}

// NewOrchestrator returns an Orchestrator that uses real databases and os/exec.
func NewOrchestrator(cfg *config.Config, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		Config: cfg,
		Log:    log,
		Runner: transfer.NewExecRunner(),
		Open:   rdbms.OpenDbConnection,
		Now:    time.Now,
	}
}

// State returns the state reached so far.
func (o *Orchestrator) State() State {
	return o.state
}

// Status returns the run summary.
func (o *Orchestrator) Status() RunStatus {
	return o.status
}

// Run executes the job. Any returned error is a *SyncError and means the run failed.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	if o.Now == nil {
		o.Now = time.Now
	}
	cfg := o.Config
	o.status = RunStatus{RunId: xid.New().String(), Job: cfg.Job.Name, StartTime: o.Now()}
	o.Log = o.Log.WithField("job", cfg.Job.Name).WithField("runId", o.status.RunId)
	o.state = StateIdle
	defer func() {
		o.cleanup()
		o.status.EndTime = o.Now()
		if err != nil {
			o.status.Error = err.Error()
			o.Log.Error(err)
			o.transition(StateFailed)
		}
		o.status.State = o.state
		o.Log.WithField("runStatus", o.status.String()).Info("run finished in state ", o.state)
	}()

	o.logConfig()
	o.transition(StateConfigLoaded)

	if _, err := transfer.CheckDependencies(ctx, o.Log, o.Runner, cfg.Ogr2ogrPath); err != nil {
		return newSyncError(DependencyMissing, o.state, err, "dependency check failed")
	}
	o.transition(StateDependenciesChecked)

	if err := o.connect(ctx); err != nil {
		return err
	}
	o.transition(StateConnectionsVerified)
	if o.TestOnly {
		o.Log.Success("connectivity test passed for job ", cfg.Job.Name)
		o.transition(StateDone)
		return nil
	}

	if err := o.acquireLock(ctx); err != nil {
		return err
	}
	o.transition(StateLocked)

	tableState, err := rdbms.InspectTable(ctx, o.Log, o.dst, cfg.Table)
	if err != nil {
		return newSyncError(InspectionFailure, o.state, err, "table inspection failed")
	}
	mode := transfer.ModeForTableState(tableState)
	o.status.Mode = mode.String()
	o.Log.Info("table ", cfg.Table, " ", tableState, "; using ", mode, " mode")
	o.transition(StateTableInspected)

	outcome, err := o.load(ctx, mode)
	if err != nil {
		return err
	}
	o.status.Rows = outcome.DestinationRows

	if mode == transfer.ModeCreate {
		if err := o.createIndex(ctx); err != nil {
			return err
		}
		o.transition(StateCreatedAndIndexed)
	} else {
		o.transition(StateAppended)
	}

	if err := rdbms.GatherTableStats(ctx, o.Log, o.dst, cfg.Table); err != nil {
		se := newSyncError(StatisticsRefreshFailure, o.state, err, "statistics refresh failed")
		o.Log.Warn(se)
	}
	o.transition(StateStatisticsUpdated)

	o.Log.Success("synced ", outcome.DestinationRows, " rows into ", cfg.Table, " in ", mode, " mode")
	o.transition(StateDone)
	return nil
}

func (o *Orchestrator) transition(s State) {
	o.Log.Debug("state ", o.state, " -> ", s)
	o.state = s
}

func (o *Orchestrator) logConfig() {
	cfg := o.Config
	if len(cfg.Defaults) > 0 {
		o.Log.Info(ConfigurationDefault, ": using defaults for ", strings.Join(cfg.Defaults, ", "))
	}
	for _, w := range cfg.Warnings {
		o.Log.Warn(w)
	}
	o.Log.Info("source ", cfg.Source, "; destination ", cfg.Destination, " table ", cfg.Table)
}

// connect opens and probes the source then the destination.
func (o *Orchestrator) connect(ctx context.Context) error {
	var err error
	if o.src, err = o.openAndProbe(ctx, o.Config.Source); err != nil {
		return newSyncError(ConnectivityFailure, o.state, err, "source database "+o.Config.Source.String())
	}
	if o.dst, err = o.openAndProbe(ctx, o.Config.Destination); err != nil {
		return newSyncError(ConnectivityFailure, o.state, err, "destination database "+o.Config.Destination.String())
	}
	return nil
}

func (o *Orchestrator) openAndProbe(ctx context.Context, c shared.ConnectionDetails) (shared.Connector, error) {
	db, err := o.Open(o.Log, c)
	if err != nil {
		return nil, err
	}
	if err := rdbms.Probe(ctx, o.Log, db); err != nil {
		db.Close()
		return nil, err
	}
	o.Log.Info("connected to ", c)
	return db, nil
}

func (o *Orchestrator) acquireLock(ctx context.Context) error {
	h, ok := o.src.(interface{ SqlDB() *sql.DB })
	if !ok || h.SqlDB() == nil {
		return newSyncError(LockContention, o.state, fmt.Errorf("source connection does not support advisory locks"), "run lock")
	}
	l, err := rdbms.AcquireRunLock(ctx, o.Log, h.SqlDB(), o.Config.Job.Name)
	if err != nil {
		if errors.Is(err, rdbms.ErrLockHeld) {
			return newSyncError(LockContention, o.state, err, "run lock")
		}
		return newSyncError(ConnectivityFailure, o.state, err, "run lock")
	}
	o.lock = l
	return nil
}

// load truncates in append mode, runs the transfer and verifies the destination row count.
func (o *Orchestrator) load(ctx context.Context, mode transfer.Mode) (*transfer.Outcome, error) {
	cfg := o.Config
	req := transfer.NewRequest(cfg)
	cmd, err := req.Command(mode)
	if err != nil {
		return nil, newSyncError(TransferFailure, o.state, err, "building ogr2ogr command")
	}
	outcome := &transfer.Outcome{Mode: mode}
	if outcome.SourceRows, err = rdbms.QueryRowCount(ctx, o.src, req.Query); err != nil {
		return nil, newSyncError(TransferFailure, o.state, err, "counting source rows")
	}
	o.Log.Info("source query returns ", outcome.SourceRows, " rows")
	if mode == transfer.ModeAppend {
		res, err := rdbms.TruncateTable(ctx, o.Log, o.dst, cfg.Table)
		if err != nil {
			return nil, newSyncError(TruncateFailure, o.state, err, "truncate")
		}
		if res.Sequence == nil {
			o.Log.Debug(SequenceNotFound, " for table ", cfg.Table)
		}
	}
	res, err := transfer.Execute(ctx, o.Log, o.Runner, cmd)
	outcome.ExitCode = res.ExitCode
	outcome.Duration = res.Duration
	if err != nil {
		return nil, newSyncError(TransferFailure, o.state, err, "ogr2ogr")
	}
	n, err := rdbms.RowCount(ctx, o.dst, cfg.Table)
	if err != nil {
		return nil, newSyncError(TransferFailure, o.state, err, "unable to verify destination row count")
	}
	if n == 0 {
		return nil, newSyncError(TransferFailure, o.state,
			fmt.Errorf("table %v is empty after ogr2ogr exited with code %v", cfg.Table, outcome.ExitCode),
			"verification")
	}
	outcome.DestinationRows = n
	if skipped := outcome.Skipped(); skipped > 0 {
		o.Log.Warn(skipped, " of ", outcome.SourceRows, " source rows were not loaded into ", cfg.Table)
	}
	o.Log.Info("loaded ", n, " rows into ", cfg.Table, " in ", outcome.Duration.Round(time.Millisecond))
	return outcome, nil
}

func (o *Orchestrator) createIndex(ctx context.Context) error {
	g := o.Config.Job.Geometry
	created, err := rdbms.CreateSpatialIndex(ctx, o.Log, o.dst, o.Config.Table, rdbms.GeometryMetadata{
		Column:    g.Destination,
		SRID:      g.SRID,
		MinX:      g.Bounds.MinX,
		MaxX:      g.Bounds.MaxX,
		MinY:      g.Bounds.MinY,
		MaxY:      g.Bounds.MaxY,
		Tolerance: g.Bounds.Tolerance,
	})
	if err != nil {
		return newSyncError(IndexFailure, o.state, err, "spatial index")
	}
	if !created {
		o.Log.Info(IndexAlreadyExists, ": ", rdbms.SpatialIndexName(o.Config.Table))
	}
	return nil
}

// cleanup releases the lock and closes connections.
func (o *Orchestrator) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	o.lock.Release(ctx)
	o.lock = nil
	if o.dst != nil {
		o.dst.Close()
		o.dst = nil
	}
	if o.src != nil {
		o.src.Close()
		o.src = nil
	}
}
