package config

import (
	_ "embed"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/ghodss/yaml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

//go:embed jobs.yaml
var builtinJobsYaml []byte

// Casts maps the supported column casts to their PostgreSQL type names.
var Casts = map[string]string{
	"date":      "date",
	"timestamp": "timestamp",
	"numeric":   "numeric",
	"integer":   "integer",
	"text":      "text",
}

// Column is one entry of a job's projection.
type Column struct {
	Source string `json:"source"`
	Alias  string `json:"alias,omitempty"`
	Cast   string `json:"cast,omitempty"`
}

// Bounds are the extent and tolerance registered in the spatial metadata.
type Bounds struct {
	MinX      float64 `json:"minX"`
	MaxX      float64 `json:"maxX"`
	MinY      float64 `json:"minY"`
	MaxY      float64 `json:"maxY"`
	Tolerance float64 `json:"tolerance"`
}

// Geometry describes the spatial column of a job.
type Geometry struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	SRID        int    `json:"srid"`
	Dimension   int    `json:"dimension"`
	Type        string `json:"type,omitempty"` // ogr2ogr -nlt value
	Bounds      Bounds `json:"bounds"`
}

// Job is one sync pipeline: a PostgreSQL view copied into an Oracle table.
type Job struct {
	Name             string   `json:"name" errorTxt:"job name" mandatory:"yes"`
	Description      string   `json:"description,omitempty"`
	SourceView       string   `json:"sourceView" errorTxt:"source view" mandatory:"yes"`
	Filter           string   `json:"filter,omitempty"`
	DestinationTable string   `json:"destinationTable" errorTxt:"destination table" mandatory:"yes"`
	SyncMode         string   `json:"syncMode,omitempty"`
	Columns          []Column `json:"columns" errorTxt:"columns" mandatory:"yes"`
	Geometry         Geometry `json:"geometry"`
	// LayerOptions are extra ogr2ogr layer creation options in the form K:V,K:V.
	// They are added after the defaults and win on a key clash.
	LayerOptions string `json:"layerOptions,omitempty"`
}

// Validate checks that the job can be turned into a safe query.
func (j Job) Validate() error {
	if err := helper.ValidateStructIsPopulated(j); err != nil {
		return fmt.Errorf("job %q: %w", j.Name, err)
	}
	for _, part := range strings.Split(j.SourceView, ".") {
		if err := helper.ValidateIdentifier(part); err != nil {
			return fmt.Errorf("job %q: bad source view: %w", j.Name, err)
		}
	}
	for idx, c := range j.Columns {
		if err := helper.ValidateIdentifier(c.Source); err != nil {
			return fmt.Errorf("job %q: column %v: %w", j.Name, idx+1, err)
		}
		if c.Alias != "" {
			if err := helper.ValidateIdentifier(c.Alias); err != nil {
				return fmt.Errorf("job %q: column %v alias: %w", j.Name, idx+1, err)
			}
		}
		if _, ok := Casts[strings.ToLower(c.Cast)]; c.Cast != "" && !ok {
			return fmt.Errorf("job %q: column %q: unsupported cast %q", j.Name, c.Source, c.Cast)
		}
	}
	if j.Geometry.Source == "" || j.Geometry.Destination == "" {
		return fmt.Errorf("job %q: geometry source and destination columns are required", j.Name)
	}
	for _, g := range []string{j.Geometry.Source, j.Geometry.Destination} {
		if err := helper.ValidateIdentifier(g); err != nil {
			return fmt.Errorf("job %q: geometry: %w", j.Name, err)
		}
	}
	if j.Geometry.SRID <= 0 {
		return fmt.Errorf("job %q: geometry SRID must be positive", j.Name)
	}
	if j.Geometry.Dimension != 2 && j.Geometry.Dimension != 3 {
		return fmt.Errorf("job %q: geometry dimension must be 2 or 3", j.Name)
	}
	return nil
}

// Query builds the row-selection query shared by both transfer modes.
func (j Job) Query() string {
	b := strings.Builder{}
	b.WriteString("select ")
	for _, c := range j.Columns {
		expr := c.Source
		if c.Cast != "" {
			expr = fmt.Sprintf("cast(%v as %v)", c.Source, Casts[strings.ToLower(c.Cast)])
		}
		alias := c.Alias
		if alias == "" && c.Cast != "" { // keep the column name when casting.
			alias = c.Source
		}
		b.WriteString(expr)
		if alias != "" && alias != expr {
			b.WriteString(" as " + alias)
		}
		b.WriteString(", ")
	}
	b.WriteString(j.Geometry.Source)
	if !strings.EqualFold(j.Geometry.Source, j.Geometry.Destination) {
		b.WriteString(" as " + j.Geometry.Destination)
	}
	b.WriteString(" from " + j.SourceView)
	if f := strings.TrimSpace(j.Filter); f != "" {
		b.WriteString(" where " + f)
	}
	return b.String()
}

// Jobs is a catalogue of job definitions keyed by name.
type Jobs map[string]Job

// Names returns the job names in sorted order.
func (j Jobs) Names() []string {
	retval := make([]string, 0, len(j))
	for k := range j {
		retval = append(retval, k)
	}
	sort.Strings(retval)
	return retval
}

// Find returns the named job or an error listing the available names.
func (j Jobs) Find(name string) (Job, error) {
	job, ok := j[name]
	if !ok {
		return Job{}, fmt.Errorf("unknown job %q: choose one of %v", name, strings.Join(j.Names(), ", "))
	}
	return job, nil
}

// ParseJobs decodes a YAML list of jobs and validates each one.
func ParseJobs(b []byte) (Jobs, error) {
	var list []Job
	if err := yaml.Unmarshal(b, &list); err != nil {
		return nil, errors.Wrap(err, "error parsing job definitions")
	}
	retval := make(Jobs, len(list))
	for _, job := range list {
		if job.SyncMode == "" {
			job.SyncMode = constants.SyncModeTruncate
		}
		if err := job.Validate(); err != nil {
			return nil, err
		}
		if _, dup := retval[job.Name]; dup {
			return nil, fmt.Errorf("duplicate job %q", job.Name)
		}
		retval[job.Name] = job
	}
	return retval, nil
}

// BuiltinJobs returns the jobs compiled into the binary.
func BuiltinJobs() Jobs {
	jobs, err := ParseJobs(builtinJobsYaml)
	if err != nil {
		panic(err) // the embedded file is covered by tests
	}
	return jobs
}

// LoadJobs returns the built-in jobs merged with the jobs in file, if supplied.
// Jobs in file replace built-in jobs of the same name.
func LoadJobs(file string) (Jobs, error) {
	jobs := BuiltinJobs()
	if file == "" {
		return jobs, nil
	}
	path, err := homedir.Expand(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error expanding job file path %v", file)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading job file %v", path)
	}
	extra, err := ParseJobs(b)
	if err != nil {
		return nil, errors.Wrapf(err, "job file %v", path)
	}
	for k, v := range extra {
		jobs[k] = v
	}
	return jobs, nil
}
