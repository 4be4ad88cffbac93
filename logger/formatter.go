package logger

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/abys/geosync/constants"
	log "github.com/sirupsen/logrus"
)

const successField = "success"

const (
	colourRed    = 31
	colourGreen  = 32
	colourYellow = 33
	colourBlue   = 36
	colourGrey   = 37
)

// LineFormatter renders "<timestamp> [LEVEL] message key=value ..." lines.
// Levels are INFO, WARN, ERROR, SUCCESS, DEBUG and TRACE.
type LineFormatter struct {
	Colors bool
}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(e *log.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	label, colour := levelLabel(e)
	b.WriteString(e.Time.Format(constants.TimeFormatLogLine))
	b.WriteString(" ")
	if f.Colors {
		fmt.Fprintf(b, "\x1b[%dm[%s]\x1b[0m", colour, label)
	} else {
		fmt.Fprintf(b, "[%s]", label)
	}
	b.WriteString(" ")
	b.WriteString(strings.TrimSuffix(e.Message, "\n"))
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k == successField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelLabel(e *log.Entry) (string, int) {
	if _, ok := e.Data[successField]; ok && e.Level == log.InfoLevel {
		return "SUCCESS", colourGreen
	}
	switch e.Level {
	case log.TraceLevel:
		return "TRACE", colourGrey
	case log.DebugLevel:
		return "DEBUG", colourGrey
	case log.InfoLevel:
		return "INFO", colourBlue
	case log.WarnLevel:
		return "WARN", colourYellow
	default:
		return "ERROR", colourRed
	}
}

// fileHook mirrors entries into a second writer with its own formatter.
type fileHook struct {
	mu        sync.Mutex
	w         io.Writer
	formatter log.Formatter
	closed    bool
}

func (h *fileHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *fileHook) Fire(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}

func (h *fileHook) close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}
