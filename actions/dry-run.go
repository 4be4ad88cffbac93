package actions

import (
	"fmt"
	"io"

	"github.com/abys/geosync/config"
	"github.com/abys/geosync/helper"
	"github.com/abys/geosync/transfer"
)

// DryRun prints the row-selection query and the redacted ogr2ogr command for both modes.
// Nothing is executed.
func DryRun(w io.Writer, cfg *config.Config) error {
	req := transfer.NewRequest(cfg)
	if _, err := fmt.Fprintf(w, "-- job %v: %v -> %v (%v)\n%v\n", cfg.Job.Name, cfg.Job.SourceView, cfg.Table, cfg.SyncMode, req.Query); err != nil {
		return err
	}
	for _, mode := range []transfer.Mode{transfer.ModeAppend, transfer.ModeCreate} {
		c, err := req.Command(mode)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n-- %v mode\n%v\n", mode, c.Display); err != nil {
			return err
		}
	}
	lco, err := helper.OrderedMapToTokens(req.LayerCreationOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n-- layer options for create mode: %v\n", lco)
	return err
}
