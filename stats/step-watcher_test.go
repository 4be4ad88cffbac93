package stats

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abys/geosync/logger"
)

func TestStepWatcherCountsLines(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logger.NewLoggerWithOutput("test", "info", false, buf)
	if err != nil {
		t.Fatal(err)
	}
	n := NewStepWatcher(log, "ogr2ogr", SetDumpFrequency(0))
	n.StartWatching()
	if got := n.RenderStats().StatusText; got != "running" {
		t.Fatalf("expected running status; got %v", got)
	}
	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.AddStdout()
			n.AddStderr()
			n.AddStdout()
		}()
	}
	wg.Wait()
	s := n.StopWatching()
	if s.StatusText != "complete" || s.StdoutLines != 20 || s.StderrLines != 10 {
		t.Fatalf("unexpected stats: %v", s)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no periodic output when dumping is disabled; got %v", buf.String())
	}
	// Stopping twice is harmless.
	if s2 := n.StopWatching(); s2.StdoutLines != 20 {
		t.Fatalf("unexpected stats after second stop: %v", s2)
	}
}

func TestStepWatcherDumpsPeriodically(t *testing.T) {
	buf := &syncBuffer{}
	log, err := logger.NewLoggerWithOutput("test", "info", false, buf)
	if err != nil {
		t.Fatal(err)
	}
	n := NewStepWatcher(log, "ogr2ogr", SetDumpFrequency(10*time.Millisecond))
	n.StartWatching()
	n.AddStdout()
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "Stats for ogr2ogr running") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	n.StopWatching()
	if !strings.Contains(buf.String(), "stdoutLines=1") {
		t.Fatalf("expected periodic stats in log output; got %v", buf.String())
	}
	// Restart resets the counters.
	n.StartWatching()
	if got := n.RenderStats().StdoutLines; got != 0 {
		t.Fatalf("expected counters to reset on restart; got %v", got)
	}
	n.StopWatching()
}

func TestStatsString(t *testing.T) {
	s := Stats{StepName: "x", StatusText: "complete", ElapsedTimeSec: 3, StdoutLines: 4, StderrLines: 5}
	expected := "Stats for x complete elapsedTimeSec=3 stdoutLines=4 stderrLines=5"
	if s.String() != expected {
		t.Fatalf("expected %q; got %q", expected, s.String())
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
