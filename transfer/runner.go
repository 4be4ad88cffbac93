package transfer

//go:generate mockgen -destination=../mocks/transfer/mock_runner.go -package=mock_transfer github.com/abys/geosync/transfer Runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/abys/geosync/helper"
)

// Command is one external program invocation.
type Command struct {
	Path string
	Args []string
	// Env is added to the current process environment for the child only.
	Env map[string]string
	// Display is the command line safe for logging.
	Display string
	// OnStdout and OnStderr receive each output line. Nil discards the stream.
	OnStdout func(line string)
	OnStderr func(line string)
}

// Result is what a finished Command reports.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Runner starts external programs.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, c Command) (*Result, error)
}

// ExecRunner runs commands with os/exec.
// The child is killed when ctx is cancelled.
type ExecRunner struct{}

// NewExecRunner returns the os/exec backed Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run starts c and waits for it, streaming stdout and stderr line by line.
// A non-zero exit is returned as an error together with the Result.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), helper.EnvSlice(c.Env)...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %v: %w", c.Path, err)
	}
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, c.OnStdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, c.OnStderr)
	}()
	wg.Wait() // pipes must be drained before Wait closes them.
	err = cmd.Wait()
	result := &Result{Duration: time.Since(start)}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case ctx.Err() != nil:
		result.ExitCode = -1
		return result, fmt.Errorf("%v was stopped: %w", c.Path, ctx.Err())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("%v exited with code %v", c.Path, result.ExitCode)
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("error waiting for %v: %w", c.Path, err)
	}
	return result, nil
}

func scanLines(r io.Reader, fn func(string)) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		if fn != nil {
			fn(s.Text())
		}
	}
	// drain anything left after a too-long line so the child never blocks.
	_, _ = io.Copy(io.Discard, r)
}
