package transfer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abys/geosync/logger"
	mock_transfer "github.com/abys/geosync/mocks/transfer"
	"github.com/abys/geosync/transfer"
	"github.com/golang/mock/gomock"
)

func formatsRun(lines ...string) func(ctx context.Context, c transfer.Command) (*transfer.Result, error) {
	return func(ctx context.Context, c transfer.Command) (*transfer.Result, error) {
		for _, l := range lines {
			c.OnStdout(l)
		}
		return &transfer.Result{}, nil
	}
}

func TestCheckDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log, _ := logger.NewLoggerWithOutput("test", "debug", false, &bytes.Buffer{})
	ctx := context.Background()

	// Test 1 - tool present with both drivers.
	r := mock_transfer.NewMockRunner(ctrl)
	r.EXPECT().LookPath("ogr2ogr").Return("/usr/bin/ogr2ogr", nil)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(formatsRun(
		"Supported Formats:",
		"  PostgreSQL -vector- (rw+): PostgreSQL/PostGIS",
		"  OCI -vector- (rw+): Oracle Spatial",
	))
	path, err := transfer.CheckDependencies(ctx, log, r, "ogr2ogr")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/usr/bin/ogr2ogr" {
		t.Fatalf("unexpected path %v", path)
	}

	// Test 2 - tool missing.
	r = mock_transfer.NewMockRunner(ctrl)
	r.EXPECT().LookPath("ogr2ogr").Return("", errors.New("executable file not found in $PATH"))
	if _, err = transfer.CheckDependencies(ctx, log, r, "ogr2ogr"); err == nil {
		t.Fatal("expected missing tool error")
	}

	// Test 3 - OCI driver missing.
	r = mock_transfer.NewMockRunner(ctrl)
	r.EXPECT().LookPath("ogr2ogr").Return("/usr/bin/ogr2ogr", nil)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(formatsRun(
		"  PostgreSQL -vector- (rw+): PostgreSQL/PostGIS",
		"  OCIX -vector- (rw+): not it",
	))
	_, err = transfer.CheckDependencies(ctx, log, r, "ogr2ogr")
	if err == nil || !strings.Contains(err.Error(), "OCI") {
		t.Fatalf("expected missing OCI driver; got %v", err)
	}
}

func TestExecuteLogsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	buf := &bytes.Buffer{}
	log, _ := logger.NewLoggerWithOutput("test", "info", false, buf)
	r := mock_transfer.NewMockRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c transfer.Command) (*transfer.Result, error) {
		c.OnStdout("0...10...20...100 - done.")
		c.OnStderr("Warning 1: skipped feature")
		return &transfer.Result{ExitCode: 0}, nil
	})
	res, err := transfer.Execute(context.Background(), log, r, transfer.Command{Path: "ogr2ogr", Display: "ogr2ogr -f OCI OCI:u/xxxxx@h:1/s"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %v", res.ExitCode)
	}
	s := buf.String()
	for _, want := range []string{"running: ogr2ogr -f OCI OCI:u/xxxxx@h:1/s", "ogr2ogr=stdout", "[WARN] Warning 1: skipped feature", "ogr2ogr=stderr", "(1 stderr lines)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in log output:\n%v", want, s)
		}
	}

	// Runner failure keeps an exit code.
	r = mock_transfer.NewMockRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	res, err = transfer.Execute(context.Background(), log, r, transfer.Command{Path: "ogr2ogr"})
	if err == nil || res.ExitCode != -1 {
		t.Fatalf("expected failure with exit code -1; got %v %+v", err, res)
	}
}
