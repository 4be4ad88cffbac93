package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
	"github.com/abys/geosync/rdbms"
	"github.com/abys/geosync/rdbms/shared"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Options are the values supplied on the command line.
type Options struct {
	JobName string // overrides SYNC_JOB
	JobFile string
	Now     time.Time // log file timestamp; zero means time.Now()
	// SkipLogFile leaves LogDir and LogFile empty and touches nothing on disk.
	SkipLogFile bool
}

// Config is the fully resolved configuration of one run.
// It is not changed after Resolve returns.
type Config struct {
	Source      shared.ConnectionDetails
	Destination shared.ConnectionDetails
	Job         Job
	Table       rdbms.SchemaTable
	SyncMode    string
	LogLevel    string
	LogDir      string
	LogFile     string
	BatchSize   int
	Ogr2ogrPath string
	// Defaults lists the environment variables that were unset and took their default value.
	Defaults []string
	// Warnings are non-fatal problems found while resolving, to be logged by the caller.
	Warnings []string
}

// envValue is one variable read from the environment.
type envValue struct {
	name  string
	key   string // mapstructure key
	value string
	def   string
}

// LoadEnvFile loads KEY=value pairs from path into the environment without overriding
// variables that are already set. A missing file is only an error when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "error expanding env file path %v", path)
	}
	if _, err := os.Stat(p); os.IsNotExist(err) && !required {
		return nil
	}
	if err := godotenv.Load(p); err != nil {
		return errors.Wrapf(err, "error loading env file %v", p)
	}
	return nil
}

// LogLevelFromEnv returns GEOSYNC_LOG_LEVEL or the default level.
func LogLevelFromEnv() string {
	return strings.ToLower(helper.ReadValueFromEnvWithDefault(constants.EnvVarLogLevel, constants.DefaultLogLevel))
}

// Resolve builds the run configuration from the environment and opts.
// Unset variables take their defaults and are recorded in Config.Defaults; this is never fatal.
// Errors are returned for an unknown job, a bad destination table name or unusable log directories.
func Resolve(opts Options) (*Config, error) {
	cfg := &Config{}
	jobs, err := LoadJobs(opts.JobFile)
	if err != nil {
		return nil, err
	}
	jobName := opts.JobName
	if jobName == "" {
		jobName = cfg.readEnv(constants.EnvVarSyncJob, constants.DefaultJobName)
	}
	cfg.Job, err = jobs.Find(jobName)
	if err != nil {
		return nil, err
	}
	// Connections.
	cfg.Source, err = cfg.decodeConnection(constants.ConnectionTypePostgres, []envValue{
		{name: constants.EnvVarPgHost, key: "host", def: "localhost"},
		{name: constants.EnvVarPgPort, key: "port", def: "5432"},
		{name: constants.EnvVarPgDatabase, key: "database", def: "abys"},
		{name: constants.EnvVarPgUser, key: "user", def: "postgres"},
		{name: constants.EnvVarPgPassword, key: "password"},
		{name: constants.EnvVarPgClientEncoding, key: "encoding", def: "UTF8"},
		{name: constants.EnvVarPgSslMode, key: "sslmode", def: "disable"},
	})
	if err != nil {
		return nil, err
	}
	cfg.Destination, err = cfg.decodeConnection(constants.ConnectionTypeOracle, []envValue{
		{name: constants.EnvVarOraHost, key: "host", def: "localhost"},
		{name: constants.EnvVarOraPort, key: "port", def: "1521"},
		{name: constants.EnvVarOraService, key: "database", def: "ORCLPDB1"},
		{name: constants.EnvVarOraUser, key: "user", def: "geosync"},
		{name: constants.EnvVarOraPassword, key: "password"},
		{name: constants.EnvVarNlsLang, key: "encoding", def: "AMERICAN_AMERICA.AL32UTF8"},
	})
	if err != nil {
		return nil, err
	}
	// Destination table.
	table := cfg.readEnv(constants.EnvVarOraTable, cfg.Job.DestinationTable)
	if cfg.Table, err = rdbms.NewSchemaTable(table); err != nil {
		return nil, errors.Wrapf(err, "bad destination table in %v", constants.EnvVarOraTable)
	}
	// Sync mode.
	cfg.SyncMode = cfg.resolveSyncMode()
	// Tuning.
	cfg.LogLevel = LogLevelFromEnv()
	cfg.Ogr2ogrPath = cfg.readEnv(constants.EnvVarOgr2ogr, constants.DefaultOgr2ogrPath)
	var bad bool
	cfg.BatchSize, bad = helper.ReadIntFromEnvWithDefault(constants.EnvVarBatchSize, constants.DefaultBatchSize)
	if bad {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring invalid %v=%q; using %v",
			constants.EnvVarBatchSize, os.Getenv(constants.EnvVarBatchSize), constants.DefaultBatchSize))
	}
	// Log file.
	if opts.SkipLogFile {
		return cfg, nil
	}
	preferred := cfg.readEnv(constants.EnvVarLogDir, constants.DefaultLogDir)
	fallback := cfg.readEnv(constants.EnvVarLogDirFallback, constants.DefaultLogDirFallback)
	dir, warning, err := ResolveLogDir(preferred, fallback)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		cfg.Warnings = append(cfg.Warnings, warning)
	}
	cfg.LogDir = dir
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cfg.LogFile = LogFilePath(dir, cfg.Job.Name, now)
	return cfg, nil
}

// readEnv returns the variable or def, recording the use of a default.
func (cfg *Config) readEnv(name string, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	cfg.Defaults = append(cfg.Defaults, name)
	return def
}

// decodeConnection reads vals from the environment and decodes them into ConnectionDetails.
func (cfg *Config) decodeConnection(dbType string, vals []envValue) (shared.ConnectionDetails, error) {
	m := map[string]interface{}{"type": dbType}
	for _, v := range vals {
		m[v.key] = cfg.readEnv(v.name, v.def)
	}
	c := shared.ConnectionDetails{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &c,
	})
	if err != nil {
		return c, err
	}
	if err := dec.Decode(m); err != nil {
		return c, errors.Wrapf(err, "error reading %v connection from the environment", dbType)
	}
	if c.Password == "" {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%v connection has no password", dbType))
	}
	return c, nil
}

// resolveSyncMode applies SYNC_MODE over the job's mode.
// Only truncate is implemented so anything else falls back to it with a warning.
func (cfg *Config) resolveSyncMode() string {
	def := cfg.Job.SyncMode
	if def == "" {
		def = constants.SyncModeTruncate
	}
	mode := strings.ToLower(cfg.readEnv(constants.EnvVarSyncMode, def))
	switch mode {
	case constants.SyncModeTruncate:
	case constants.SyncModeRecreate:
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("sync mode %q is not supported; using %q",
			mode, constants.SyncModeTruncate))
		mode = constants.SyncModeTruncate
	default:
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown sync mode %q; using %q",
			mode, constants.SyncModeTruncate))
		mode = constants.SyncModeTruncate
	}
	return mode
}

// ResolveLogDir returns the first of preferred and fallback that can be created and written to.
// A non-empty warning is returned when the fallback was used.
func ResolveLogDir(preferred string, fallback string) (dir string, warning string, err error) {
	errPreferred := makeWritableDir(preferred)
	if errPreferred == nil {
		return expand(preferred), "", nil
	}
	if err := makeWritableDir(fallback); err != nil {
		return "", "", fmt.Errorf("no usable log directory: %v: %v; %v: %v", preferred, errPreferred, fallback, err)
	}
	return expand(fallback), fmt.Sprintf("log directory %v is not usable (%v); using %v", preferred, errPreferred, expand(fallback)), nil
}

// LogFilePath returns <dir>/geosync_<job>_<YYYYMMDD_HHMMSS>.log.
func LogFilePath(dir string, job string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%v_%v_%v.log", constants.ServiceName, job, t.Format(constants.TimeFormatLogFile)))
}
