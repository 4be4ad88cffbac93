package constants

// General

const (
	ServiceName                = "geosync"
	EnvVarPrefix               = "GEOSYNC" // prefixed for environment variables that are not connection details
	TimeFormatLogFile          = "20060102_150405"
	TimeFormatLogLine          = "2006-01-02 15:04:05"
	DefaultLogLevel            = "info"
	DefaultLogDir              = "/var/log/geosync"
	DefaultLogDirFallback      = "~/.geosync/logs"
	DefaultEnvFile             = ".env"
	DefaultJobName             = "abone-adres"
	DefaultBatchSize           = 10000
	DefaultOgr2ogrPath         = "ogr2ogr"
	OracleConnectionParams     = "prefetch_rows=500"
	OracleMaxIdentifierLength  = 30 // keep index names portable to pre-12.2 databases
	SpatialIndexSuffix         = "_GEOM_IDX"
	LockNamespace              = "geosync:" // prefix hashed with the job name to build the advisory lock key
	ExitCodeFailure            = 1
	ConnectionTypeOracle       = "oracle"
	ConnectionTypePostgres     = "postgres"
	SyncModeTruncate           = "truncate"
	SyncModeRecreate           = "recreate"
	OgrDriverOracle            = "OCI"
	OgrDriverPostgres          = "PostgreSQL"
	OraErrNameAlreadyUsed      = "ORA-00955"
	OraErrColumnListIndexed    = "ORA-01408"
	OraErrSequenceDoesNotExist = "ORA-02289"
	StatsDumpFrequencySeconds  = 30 // progress of a running transfer is logged this often
)

// Environment variable names.

const (
	EnvVarPgHost           = "PG_HOST"
	EnvVarPgPort           = "PG_PORT"
	EnvVarPgDatabase       = "PG_DATABASE"
	EnvVarPgUser           = "PG_USER"
	EnvVarPgPassword       = "PG_PASSWORD"
	EnvVarPgSslMode        = "PG_SSLMODE"
	EnvVarPgClientEncoding = "PGCLIENTENCODING"
	EnvVarPgPasswordChild  = "PGPASSWORD" // read by libpq inside ogr2ogr
	EnvVarOraHost          = "ORACLE_HOST"
	EnvVarOraPort          = "ORACLE_PORT"
	EnvVarOraService       = "ORACLE_SERVICE"
	EnvVarOraUser          = "ORACLE_USER"
	EnvVarOraPassword      = "ORACLE_PASSWORD"
	EnvVarOraTable         = "ORACLE_TABLE"
	EnvVarNlsLang          = "NLS_LANG"
	EnvVarSyncJob          = "SYNC_JOB"
	EnvVarSyncMode         = "SYNC_MODE"
	EnvVarLogLevel         = EnvVarPrefix + "_LOG_LEVEL"
	EnvVarLogDir           = EnvVarPrefix + "_LOG_DIR"
	EnvVarLogDirFallback   = EnvVarPrefix + "_LOG_DIR_FALLBACK"
	EnvVarBatchSize        = EnvVarPrefix + "_BATCH_SIZE"
	EnvVarOgr2ogr          = EnvVarPrefix + "_OGR2OGR"
)
