// Package runlog writes the per-run import log: one file per run, named
// after the run's start time, holding a Processing line and an outcome
// line for every domain.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Message prefixes of the three record shapes.
const (
	Processing = "Processing"
	Success    = "Success"
	Error      = "Error"
)

// Logger is the run log of a single import run.
type Logger struct {
	path string
	file *os.File
	zl   *zap.Logger
	log  logr.Logger
}

// FileName returns the log file name for a run started at the given time.
func FileName(started time.Time) string {
	return fmt.Sprintf("import-%d.log", started.UTC().Unix())
}

// Open creates (or appends to) the run log in dir.
func Open(dir string, started time.Time) (*Logger, error) {
	path := filepath.Join(dir, FileName(started))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}

	zl := zap.New(zapcore.NewCore(newEncoder(), zapcore.AddSync(f), zapcore.InfoLevel))
	return &Logger{
		path: path,
		file: f,
		zl:   zl,
		log:  zapr.NewLogger(zl),
	}, nil
}

// newEncoder renders "<time>\t<LEVEL>\t<message>" lines.
func newEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.RFC3339TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "\t",
	})
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Processing records that work on domain has started.
func (l *Logger) Processing(domain string) {
	l.log.Info(Processing + ":" + domain)
}

// Success records that domain was imported and its file moved.
func (l *Logger) Success(domain string) {
	l.log.Info(Success + ":" + domain)
}

// Failure records that domain was skipped because of err.
func (l *Logger) Failure(domain string, err error) {
	l.log.Info(Error + ":" + domain + ":" + err.Error())
}

// Unreconciled records that domain was imported by the provider but its
// file could not be moved out of the input directory. These need manual
// attention: a later run would import the zone again.
func (l *Logger) Unreconciled(domain string, err error) {
	l.log.Error(nil, Error+":"+domain+":imported but not moved: "+err.Error())
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if err := l.zl.Sync(); err != nil {
		_ = l.file.Close()
		return fmt.Errorf("runlog: sync %s: %w", l.path, err)
	}
	return l.file.Close()
}
