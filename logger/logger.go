package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Logger type is interface for available logging methods.
type Logger interface {
	Trace(...interface{})
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
	Success(...interface{})
	WithField(key string, value interface{}) Logger
}

// LoggerImpl is a struct that extends sirupsen/logrus.
// Each instance owns its own logrus.Logger so nothing is shared via package globals.
type LoggerImpl struct {
	Logger         *log.Entry
	Service        string
	LogLevelStr    string
	PrintStackDump bool
	base           *log.Logger
}

// NewLoggerWithOutput creates a logger writing to w.
// Colours are used only when w is a terminal.
func NewLoggerWithOutput(serviceName string, level string, stackDumpOnPanic bool, w io.Writer) (*LoggerImpl, error) {
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	base := log.New()
	base.SetOutput(w)
	base.SetLevel(logLevel)
	base.SetFormatter(&LineFormatter{Colors: isTerminal(w)})
	entry := base.WithFields(log.Fields{
		"service": serviceName,
	})
	return &LoggerImpl{Logger: entry, Service: serviceName, LogLevelStr: level, PrintStackDump: stackDumpOnPanic, base: base}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Trace log.
func (l *LoggerImpl) Trace(message ...interface{}) {
	l.Logger.Trace(message...)
}

// Debug log.
func (l *LoggerImpl) Debug(message ...interface{}) {
	l.Logger.Debug(message...)
}

// Info log.
func (l *LoggerImpl) Info(message ...interface{}) {
	l.Logger.Info(message...)
}

// Warn log.
func (l *LoggerImpl) Warn(message ...interface{}) {
	l.Logger.Warn(message...)
}

// Error (with stack trace in trace mode or if the user asked for stack dumps).
func (l *LoggerImpl) Error(message ...interface{}) {
	if l.LogLevelStr == "trace" || l.PrintStackDump {
		l.Logger.WithField("stackTrace", fmt.Sprintf("%s", debug.Stack())).Error(message...)
	} else {
		l.Logger.Error(message...)
	}
}

// Success logs at info severity but is labelled SUCCESS by LineFormatter.
func (l *LoggerImpl) Success(message ...interface{}) {
	l.Logger.WithField(successField, true).Info(message...)
}

// WithField returns a child logger that adds key=value to every line.
func (l *LoggerImpl) WithField(key string, value interface{}) Logger {
	return &LoggerImpl{
		Logger:         l.Logger.WithField(key, value),
		Service:        l.Service,
		LogLevelStr:    l.LogLevelStr,
		PrintStackDump: l.PrintStackDump,
		base:           l.base,
	}
}

// AttachFile appends every log line to the file at path, in addition to the current output.
// The file never receives colour codes. Call the returned func to detach and close the file.
func (l *LoggerImpl) AttachFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %v: %w", path, err)
	}
	h := &fileHook{w: f, formatter: &LineFormatter{}}
	l.base.AddHook(h)
	return func() error {
		h.close()
		return f.Close()
	}, nil
}
