package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
)

// RequiredDrivers are the OGR drivers a sync needs.
var RequiredDrivers = []string{constants.OgrDriverPostgres, constants.OgrDriverOracle}

// CheckDependencies confirms that ogr2ogr can be found and was built with RequiredDrivers.
// It returns the resolved path of the tool.
func CheckDependencies(ctx context.Context, log logger.Logger, runner Runner, ogr2ogr string) (string, error) {
	path, err := runner.LookPath(ogr2ogr)
	if err != nil {
		return "", fmt.Errorf("%v not found: %w", ogr2ogr, err)
	}
	log.Debug("found ogr2ogr at ", path)
	var lines []string
	_, err = runner.Run(ctx, Command{
		Path:     path,
		Args:     []string{"--formats"},
		Display:  path + " --formats",
		OnStdout: func(line string) { lines = append(lines, line) },
		OnStderr: func(line string) { log.Debug("ogr2ogr --formats: ", line) },
	})
	if err != nil {
		return "", fmt.Errorf("unable to list ogr2ogr formats: %w", err)
	}
	var missing []string
	for _, d := range RequiredDrivers {
		if !hasDriver(lines, d) {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("ogr2ogr at %v is missing drivers: %v", path, strings.Join(missing, ", "))
	}
	return path, nil
}

// hasDriver looks for a --formats line like "  OCI -vector- (rw+): Oracle Spatial".
func hasDriver(lines []string, name string) bool {
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) > 0 && f[0] == name {
			return true
		}
	}
	return false
}
