package logger_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/abys/geosync/logger"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var (
		logOutput *bytes.Buffer
		log       *logger.LoggerImpl
	)

	BeforeEach(func() {
		var err error
		logOutput = bytes.NewBufferString("")
		log, err = logger.NewLoggerWithOutput("test-service", "debug", false, logOutput)
		Expect(err).NotTo(HaveOccurred())
	})

	It("Should have `test-service` as service name", func() {
		log.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("service=test-service"))
	})

	It("Should have INFO as log level", func() {
		log.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("[INFO] Testing"))
	})

	It("Should have WARN as log level", func() {
		log.Warn("Testing")
		Expect(logOutput.String()).To(ContainSubstring("[WARN] Testing"))
	})

	It("Should have ERROR as log level", func() {
		log.Error("Testing")
		Expect(logOutput.String()).To(ContainSubstring("[ERROR] Testing"))
	})

	It("Should label success lines without leaking the marker field", func() {
		log.Success("done")
		Expect(logOutput.String()).To(ContainSubstring("[SUCCESS] done"))
		Expect(logOutput.String()).NotTo(ContainSubstring("success=true"))
	})

	It("Should add fields with WithField", func() {
		log.WithField("job", "abone-adres").Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("job=abone-adres"))
	})

	It("Should add a stack trace to errors when asked to", func() {
		l, err := logger.NewLoggerWithOutput("test-service", "info", true, logOutput)
		Expect(err).NotTo(HaveOccurred())
		l.Error("Testing")
		Expect(logOutput.String()).To(ContainSubstring("stackTrace="))
	})

	It("Should reject unknown levels", func() {
		_, err := logger.NewLoggerWithOutput("test-service", "chatty", false, logOutput)
		Expect(err).To(HaveOccurred())
	})

	It("Should mirror lines into an attached file", func() {
		dir, err := ioutil.TempDir("", "geosync-logger")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "run.log")
		closeFn, err := log.AttachFile(path)
		Expect(err).NotTo(HaveOccurred())
		log.Info("to both")
		Expect(closeFn()).To(Succeed())
		log.Info("stderr only")
		b, err := ioutil.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring("[INFO] to both"))
		Expect(string(b)).NotTo(ContainSubstring("stderr only"))
		Expect(logOutput.String()).To(ContainSubstring("stderr only"))
	})
})
