package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/abys/geosync/config"
	"github.com/abys/geosync/constants"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var envVars = []string{
	constants.EnvVarPgHost, constants.EnvVarPgPort, constants.EnvVarPgDatabase, constants.EnvVarPgUser,
	constants.EnvVarPgPassword, constants.EnvVarPgSslMode, constants.EnvVarPgClientEncoding,
	constants.EnvVarOraHost, constants.EnvVarOraPort, constants.EnvVarOraService, constants.EnvVarOraUser,
	constants.EnvVarOraPassword, constants.EnvVarOraTable, constants.EnvVarNlsLang,
	constants.EnvVarSyncJob, constants.EnvVarSyncMode, constants.EnvVarLogLevel, constants.EnvVarLogDir,
	constants.EnvVarLogDirFallback, constants.EnvVarBatchSize, constants.EnvVarOgr2ogr,
}

var _ = Describe("Resolve", func() {
	var (
		saved  map[string]string
		tmpDir string
	)

	BeforeEach(func() {
		saved = make(map[string]string)
		for _, k := range envVars {
			if v, ok := os.LookupEnv(k); ok {
				saved[k] = v
			}
			Expect(os.Unsetenv(k)).To(Succeed())
		}
		var err error
		tmpDir, err = ioutil.TempDir("", "geosync-config")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Setenv(constants.EnvVarLogDir, filepath.Join(tmpDir, "logs"))).To(Succeed())
	})

	AfterEach(func() {
		for _, k := range envVars {
			_ = os.Unsetenv(k)
		}
		for k, v := range saved {
			_ = os.Setenv(k, v)
		}
		_ = os.RemoveAll(tmpDir)
	})

	It("Should apply defaults without failing", func() {
		cfg, err := config.Resolve(config.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Job.Name).To(Equal(constants.DefaultJobName))
		Expect(cfg.Source.Host).To(Equal("localhost"))
		Expect(cfg.Source.Port).To(Equal(5432))
		Expect(cfg.Source.Database).To(Equal("abys"))
		Expect(cfg.Source.Encoding).To(Equal("UTF8"))
		Expect(cfg.Destination.Port).To(Equal(1521))
		Expect(cfg.Destination.Database).To(Equal("ORCLPDB1"))
		Expect(cfg.Destination.Encoding).To(Equal("AMERICAN_AMERICA.AL32UTF8"))
		Expect(cfg.Table.String()).To(Equal("ABONE_ADRES_BILGILERI"))
		Expect(cfg.SyncMode).To(Equal(constants.SyncModeTruncate))
		Expect(cfg.BatchSize).To(Equal(constants.DefaultBatchSize))
		Expect(cfg.Ogr2ogrPath).To(Equal("ogr2ogr"))
		Expect(cfg.Defaults).To(ContainElement(constants.EnvVarPgHost))
		Expect(cfg.Defaults).To(ContainElement(constants.EnvVarOraTable))
		Expect(cfg.Warnings).To(ContainElement(ContainSubstring("has no password")))
	})

	It("Should read values from the environment", func() {
		Expect(os.Setenv(constants.EnvVarPgHost, "pg.internal")).To(Succeed())
		Expect(os.Setenv(constants.EnvVarPgPort, "6432")).To(Succeed())
		Expect(os.Setenv(constants.EnvVarOraPassword, "oraPw")).To(Succeed())
		Expect(os.Setenv(constants.EnvVarOraTable, "gis.sayac_konum")).To(Succeed())
		Expect(os.Setenv(constants.EnvVarSyncJob, "sayac-konum")).To(Succeed())
		Expect(os.Setenv(constants.EnvVarBatchSize, "500")).To(Succeed())
		cfg, err := config.Resolve(config.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Source.Host).To(Equal("pg.internal"))
		Expect(cfg.Source.Port).To(Equal(6432))
		Expect(cfg.Destination.Password).To(Equal("oraPw"))
		Expect(cfg.Job.Name).To(Equal("sayac-konum"))
		Expect(cfg.Table.String()).To(Equal("GIS.SAYAC_KONUM"))
		Expect(cfg.BatchSize).To(Equal(500))
		Expect(cfg.Defaults).NotTo(ContainElement(constants.EnvVarPgHost))
	})

	It("Should prefer the job option over SYNC_JOB", func() {
		Expect(os.Setenv(constants.EnvVarSyncJob, "sayac-konum")).To(Succeed())
		cfg, err := config.Resolve(config.Options{JobName: "abone-adres"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Job.Name).To(Equal("abone-adres"))
	})

	It("Should fail on an unknown job", func() {
		_, err := config.Resolve(config.Options{JobName: "nope"})
		Expect(err).To(MatchError(ContainSubstring("unknown job")))
	})

	It("Should fail on a bad port", func() {
		Expect(os.Setenv(constants.EnvVarOraPort, "abc")).To(Succeed())
		_, err := config.Resolve(config.Options{})
		Expect(err).To(HaveOccurred())
	})

	It("Should reject an unsafe destination table", func() {
		Expect(os.Setenv(constants.EnvVarOraTable, "t; drop table x")).To(Succeed())
		_, err := config.Resolve(config.Options{})
		Expect(err).To(HaveOccurred())
	})

	It("Should fall back to truncate for recreate", func() {
		Expect(os.Setenv(constants.EnvVarSyncMode, "recreate")).To(Succeed())
		cfg, err := config.Resolve(config.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.SyncMode).To(Equal(constants.SyncModeTruncate))
		Expect(cfg.Warnings).To(ContainElement(ContainSubstring("not supported")))
	})

	It("Should warn about a bad batch size", func() {
		Expect(os.Setenv(constants.EnvVarBatchSize, "-3")).To(Succeed())
		cfg, err := config.Resolve(config.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.BatchSize).To(Equal(constants.DefaultBatchSize))
		Expect(cfg.Warnings).To(ContainElement(ContainSubstring(constants.EnvVarBatchSize)))
	})

	It("Should name the log file after the job and time", func() {
		now := time.Date(2024, 3, 5, 2, 30, 0, 0, time.UTC)
		cfg, err := config.Resolve(config.Options{Now: now})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LogDir).To(Equal(filepath.Join(tmpDir, "logs")))
		Expect(cfg.LogFile).To(Equal(filepath.Join(tmpDir, "logs", "geosync_abone-adres_20240305_023000.log")))
	})

	It("Should leave the disk alone when the log file is skipped", func() {
		cfg, err := config.Resolve(config.Options{SkipLogFile: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LogDir).To(BeEmpty())
		Expect(cfg.LogFile).To(BeEmpty())
		_, err = os.Stat(filepath.Join(tmpDir, "logs"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("Should use the fallback log directory", func() {
		blocker := filepath.Join(tmpDir, "file")
		Expect(ioutil.WriteFile(blocker, []byte("x"), 0644)).To(Succeed())
		Expect(os.Setenv(constants.EnvVarLogDir, blocker)).To(Succeed())
		Expect(os.Setenv(constants.EnvVarLogDirFallback, filepath.Join(tmpDir, "fallback"))).To(Succeed())
		cfg, err := config.Resolve(config.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LogDir).To(Equal(filepath.Join(tmpDir, "fallback")))
		Expect(cfg.Warnings).To(ContainElement(ContainSubstring("not usable")))
	})

	It("Should fail when no log directory is usable", func() {
		blocker := filepath.Join(tmpDir, "file")
		Expect(ioutil.WriteFile(blocker, []byte("x"), 0644)).To(Succeed())
		Expect(os.Setenv(constants.EnvVarLogDir, blocker)).To(Succeed())
		Expect(os.Setenv(constants.EnvVarLogDirFallback, filepath.Join(blocker, "sub"))).To(Succeed())
		_, err := config.Resolve(config.Options{})
		Expect(err).To(MatchError(ContainSubstring("no usable log directory")))
	})
})

var _ = Describe("LoadEnvFile", func() {
	It("Should not override variables that are already set", func() {
		dir, err := ioutil.TempDir("", "geosync-env")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(dir)
		f := filepath.Join(dir, ".env")
		Expect(ioutil.WriteFile(f, []byte("GEOSYNC_TEST_A=fromfile\nGEOSYNC_TEST_B=fromfile\n"), 0644)).To(Succeed())
		Expect(os.Setenv("GEOSYNC_TEST_A", "fromenv")).To(Succeed())
		defer os.Unsetenv("GEOSYNC_TEST_A")
		defer os.Unsetenv("GEOSYNC_TEST_B")
		Expect(config.LoadEnvFile(f, true)).To(Succeed())
		Expect(os.Getenv("GEOSYNC_TEST_A")).To(Equal("fromenv"))
		Expect(os.Getenv("GEOSYNC_TEST_B")).To(Equal("fromfile"))
	})

	It("Should ignore a missing optional file", func() {
		Expect(config.LoadEnvFile("/does/not/exist/.env", false)).To(Succeed())
		Expect(config.LoadEnvFile("/does/not/exist/.env", true)).NotTo(Succeed())
	})
})
