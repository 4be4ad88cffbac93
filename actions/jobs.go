package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/abys/geosync/config"
	"github.com/ghodss/yaml"
)

// JobsConfig holds the options of the jobs command.
type JobsConfig struct {
	JobFile string
	Output  string // yaml or json
	Stdout  io.Writer
}

// ListJobs prints the job catalogue in cfg.Output format.
func ListJobs(cfg *JobsConfig) error {
	w := cfg.Stdout
	if w == nil {
		w = os.Stdout
	}
	jobs, err := config.LoadJobs(cfg.JobFile)
	if err != nil {
		return err
	}
	list := make([]config.Job, 0, len(jobs))
	for _, name := range jobs.Names() {
		list = append(list, jobs[name])
	}
	var b []byte
	switch cfg.Output {
	case "", "yaml":
		b, err = yaml.Marshal(list)
	case "json":
		b, err = json.MarshalIndent(list, "", "  ")
		b = append(b, '\n')
	default:
		return fmt.Errorf("unsupported output format %q: use yaml or json", cfg.Output)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
