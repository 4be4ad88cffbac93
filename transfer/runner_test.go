package transfer

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunnerStreamsLines(t *testing.T) {
	r := NewExecRunner()
	var out, errOut []string
	res, err := r.Run(context.Background(), Command{
		Path:     "/bin/sh",
		Args:     []string{"-c", `echo one; echo two; echo "$GEOSYNC_TEST_VAR" 1>&2`},
		Env:      map[string]string{"GEOSYNC_TEST_VAR": "from-env"},
		OnStdout: func(l string) { out = append(out, l) },
		OnStderr: func(l string) { errOut = append(errOut, l) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("expected exit code 0; got %v", res.ExitCode)
	}
	if strings.Join(out, ",") != "one,two" {
		t.Fatalf("unexpected stdout %v", out)
	}
	if strings.Join(errOut, ",") != "from-env" {
		t.Fatalf("unexpected stderr %v", errOut)
	}
}

func TestExecRunnerExitCode(t *testing.T) {
	res, err := NewExecRunner().Run(context.Background(), Command{Path: "/bin/sh", Args: []string{"-c", "exit 3"}})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if res == nil || res.ExitCode != 3 {
		t.Fatalf("expected exit code 3; got %+v", res)
	}
}

func TestExecRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := NewExecRunner().Run(ctx, Command{Path: "/bin/sh", Args: []string{"-c", "exec sleep 10"}})
	if err == nil {
		t.Fatal("expected error when the context is cancelled")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("expected the child to be killed")
	}
}

func TestExecRunnerMissingProgram(t *testing.T) {
	if _, err := NewExecRunner().Run(context.Background(), Command{Path: "/does/not/exist"}); err == nil {
		t.Fatal("expected start error")
	}
}
