package collaborator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Logger implements spec.md §6's "debug|info|warning|error|critical(message)"
// collaborator contract over slog, the ambient logging library this codebase
// uses throughout.
type Logger interface {
	Debug(message string)
	Info(message string)
	Warning(message string)
	Error(message string)
	Critical(message string)
}

// SlogLogger writes to a slog.Logger built from log_dir/log_to_console
// settings: a file under log_dir named after the date the logger was
// created (it is not rotated afterwards) when set, and/or stdout.
// "critical" has no direct slog level so it is logged at slog.LevelError
// with a "critical" attribute, the same one-extra-attribute approach the
// teacher uses for error codes.
type SlogLogger struct {
	logger *slog.Logger
	closer io.Closer
}

func NewSlogLogger(logDir string, logToConsole bool) (*SlogLogger, error) {
	var writers []io.Writer
	var closer io.Closer

	if logToConsole {
		writers = append(writers, os.Stdout)
	}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log_dir %s: %w", logDir, err)
		}
		filename := filepath.Join(logDir, fmt.Sprintf("pipeline-%s.log", time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", filename, err)
		}
		writers = append(writers, f)
		closer = f
	}

	var w io.Writer = io.Discard
	if len(writers) == 1 {
		w = writers[0]
	} else if len(writers) > 1 {
		w = io.MultiWriter(writers...)
	}

	return &SlogLogger{
		logger: slog.New(slog.NewJSONHandler(w, nil)),
		closer: closer,
	}, nil
}

func (l *SlogLogger) Debug(message string)    { l.logger.Debug(message) }
func (l *SlogLogger) Info(message string)     { l.logger.Info(message) }
func (l *SlogLogger) Warning(message string)  { l.logger.Warn(message) }
func (l *SlogLogger) Error(message string)    { l.logger.Error(message) }
func (l *SlogLogger) Critical(message string) { l.logger.Error(message, "level", "critical") }

func (l *SlogLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
