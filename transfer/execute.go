package transfer

import (
	"context"
	"time"

	"github.com/abys/geosync/logger"
	"github.com/abys/geosync/stats"
)

// Outcome describes one transfer. It is only logged.
type Outcome struct {
	Mode            Mode
	ExitCode        int
	SourceRows      int64
	DestinationRows int64
	Duration        time.Duration
}

// Skipped is the number of source rows missing from the destination, floored at zero.
func (o Outcome) Skipped() int64 {
	if o.DestinationRows >= o.SourceRows {
		return 0
	}
	return o.SourceRows - o.DestinationRows
}

// Execute runs c once, logging tool output on the ogr2ogr field.
// Stdout goes to info and stderr to warn. Progress is logged periodically while the tool runs.
func Execute(ctx context.Context, log logger.Logger, runner Runner, c Command, options ...func(n *stats.StepWatcher)) (*Result, error) {
	out := log.WithField("ogr2ogr", "stdout")
	errOut := log.WithField("ogr2ogr", "stderr")
	watcher := stats.NewStepWatcher(log, "ogr2ogr", options...)
	c.OnStdout = func(line string) {
		watcher.AddStdout()
		out.Info(line)
	}
	c.OnStderr = func(line string) {
		watcher.AddStderr()
		errOut.Warn(line)
	}
	log.Info("running: ", c.Display)
	watcher.StartWatching()
	res, err := runner.Run(ctx, c)
	final := watcher.StopWatching()
	if res == nil {
		res = &Result{ExitCode: -1}
	}
	if err != nil {
		return res, err
	}
	log.Info("ogr2ogr finished in ", res.Duration.Round(time.Millisecond), " (", final.StderrLines, " stderr lines)")
	return res, nil
}
