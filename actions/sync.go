package actions

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/abys/geosync/config"
	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
)

// SyncConfig holds the command line options of the sync command.
type SyncConfig struct {
	JobName          string
	JobFile          string
	EnvFile          string
	EnvFileRequired  bool // true when the user named the env file explicitly
	LogLevel         string
	StackDumpOnPanic bool
	TestOnly         bool
	DryRun           bool
	Stdout           io.Writer
	Stderr           io.Writer
}

// RunSync resolves the configuration and runs, tests or prints the job.
func RunSync(cfg *SyncConfig) error {
	if err := config.LoadEnvFile(cfg.EnvFile, cfg.EnvFileRequired); err != nil {
		return err
	}
	level := cfg.LogLevel
	if level == "" {
		level = config.LogLevelFromEnv()
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	log, err := logger.NewLoggerWithOutput(constants.ServiceName, level, cfg.StackDumpOnPanic, cfg.Stderr)
	if err != nil {
		return err
	}
	c, err := config.Resolve(config.Options{JobName: cfg.JobName, JobFile: cfg.JobFile, SkipLogFile: cfg.DryRun})
	if err != nil {
		return err
	}
	if cfg.DryRun {
		return DryRun(cfg.Stdout, c)
	}
	detach, err := log.AttachFile(c.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = detach()
	}()
	log.Info("logging to ", c.LogFile)
	// Handle interrupts.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chanQuit := make(chan os.Signal, 2)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanQuit)
	go func() {
		select {
		case sig := <-chanQuit:
			log.Warn("received signal ", sig, "; stopping")
			cancel()
		case <-ctx.Done():
		}
	}()
	o := NewOrchestrator(c, log)
	o.TestOnly = cfg.TestOnly
	return o.Run(ctx)
}
