package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
)

// StepWatcher counts output lines of a running step and periodically logs how long it has been running.
// Call StartWatching() and StopWatching() around the step; AddStdout and AddStderr are safe for concurrent use.
type StepWatcher struct {
	log           logger.Logger
	stepName      string
	frequency     time.Duration
	stdoutLines   int64
	stderrLines   int64
	startTime     time.Time
	endTime       time.Time
	isRunningFlag int32
	mu            sync.Mutex
	ticker        *time.Ticker
	tickerDone    chan struct{}
}

// Stats is a point in time view of a StepWatcher.
type Stats struct {
	StepName       string `json:"stepName"`
	StatusText     string `json:"statusText"`
	ElapsedTimeSec int    `json:"elapsedTimeSec"`
	StdoutLines    int    `json:"stdoutLines"`
	StderrLines    int    `json:"stderrLines"`
}

// SetDumpFrequency returns an option for NewStepWatcher that overrides how often stats are logged.
// Zero disables periodic logging.
func SetDumpFrequency(d time.Duration) func(n *StepWatcher) {
	return func(n *StepWatcher) {
		n.frequency = d
	}
}

// NewStepWatcher returns a StepWatcher that logs every constants.StatsDumpFrequencySeconds by default.
func NewStepWatcher(log logger.Logger, stepName string, options ...func(n *StepWatcher)) *StepWatcher {
	n := &StepWatcher{
		log:       log,
		stepName:  stepName,
		frequency: time.Second * constants.StatsDumpFrequencySeconds,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// StartWatching resets the counters and starts the periodic dump.
func (n *StepWatcher) StartWatching() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if atomic.LoadInt32(&n.isRunningFlag) == 1 {
		return
	}
	atomic.StoreInt64(&n.stdoutLines, 0)
	atomic.StoreInt64(&n.stderrLines, 0)
	n.startTime = time.Now()
	n.endTime = time.Time{}
	atomic.StoreInt32(&n.isRunningFlag, 1)
	if n.frequency <= 0 {
		return
	}
	n.ticker = time.NewTicker(n.frequency)
	n.tickerDone = make(chan struct{})
	go func(t *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-t.C:
				n.log.Info(n.RenderStats())
			case <-done:
				return
			}
		}
	}(n.ticker, n.tickerDone)
}

// StopWatching stops the periodic dump and returns the final stats.
func (n *StepWatcher) StopWatching() Stats {
	n.mu.Lock()
	if atomic.LoadInt32(&n.isRunningFlag) == 1 {
		if n.ticker != nil {
			n.ticker.Stop()
			close(n.tickerDone) // the ticker goroutine exits.
			n.ticker = nil
		}
		n.endTime = time.Now()
		atomic.StoreInt32(&n.isRunningFlag, 0)
	}
	n.mu.Unlock()
	return n.RenderStats()
}

func (n *StepWatcher) AddStdout() {
	atomic.AddInt64(&n.stdoutLines, 1)
}

func (n *StepWatcher) AddStderr() {
	atomic.AddInt64(&n.stderrLines, 1)
}

// RenderStats gets a struct filled with stats at the point of time it is called.
func (n *StepWatcher) RenderStats() Stats {
	n.mu.Lock()
	start, end := n.startTime, n.endTime
	n.mu.Unlock()
	statusText := "complete"
	if atomic.LoadInt32(&n.isRunningFlag) == 1 {
		statusText = "running"
		end = time.Now()
	}
	elapsed := 0
	if !start.IsZero() {
		elapsed = int(end.Sub(start).Seconds())
	}
	return Stats{
		StepName:       n.stepName,
		StatusText:     statusText,
		ElapsedTimeSec: elapsed,
		StdoutLines:    int(atomic.LoadInt64(&n.stdoutLines)),
		StderrLines:    int(atomic.LoadInt64(&n.stderrLines)),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v "+
			"elapsedTimeSec=%v "+
			"stdoutLines=%v "+
			"stderrLines=%v",
		s.StepName, s.StatusText,
		s.ElapsedTimeSec,
		s.StdoutLines,
		s.StderrLines,
	)
}
