package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// EnvLogLevel enables logging at the given level (debug, info, warn, error).
	EnvLogLevel = "DEBUG_PPAASS"
	// EnvWarnFail turns warnings and errors into fatal exits.
	EnvWarnFail = "WARNFAIL_PPAASS"
)

var (
	log  *Logger
	once sync.Once

	failFast string
)

// Fields is the structured field set attached to a log entry.
type Fields = logrus.Fields

type Logger struct {
	*logrus.Logger
}

type Entry struct {
	*logrus.Entry
}

func (l *Logger) Warn(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Errorf(format, args...)
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{l.Logger.WithFields(fields)}
}

func (l *Logger) WithError(err error) *Entry {
	return &Entry{l.Logger.WithError(err)}
}

func (e *Entry) Warn(args ...interface{}) {
	warnFatal(args...)
	e.Entry.Warn(args...)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	e.Entry.Warnf(format, args...)
}

func (e *Entry) Error(args ...interface{}) {
	warnFatal(args...)
	e.Entry.Error(args...)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	e.Entry.Errorf(format, args...)
}

// Report logs args at level and never exits, even in warn-fail mode. It
// is meant for conditions the process must survive.
func (e *Entry) Report(level logrus.Level, args ...interface{}) {
	e.Entry.Log(level, args...)
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{e.Entry.WithFields(fields)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{e.Entry.WithError(err)}
}

// SetWarnFail turns warn-fail mode on or off after initialization.
func SetWarnFail(enabled bool) {
	if enabled {
		failFast = "1"
		return
	}
	failFast = ""
}

// WarnFail reports whether warnings and errors are fatal.
func WarnFail() bool {
	return failFast != ""
}

func warnFatal(args ...interface{}) {
	if failFast != "" {
		log.Logger.Fatal(args...)
	}
}

func warnFatalf(format string, args ...interface{}) {
	if failFast != "" {
		log.Logger.Fatalf(format, args...)
	}
}

// InitializePpaassLogger configures the process-wide logger from the
// environment. Only the first call has any effect.
func InitializePpaassLogger() {
	once.Do(func() {
		log = &Logger{Logger: logrus.New()}
		configure(log, os.Getenv(EnvLogLevel), os.Getenv(EnvWarnFail))
	})
}

// configure reports errors on stderr unless logLevel asks for more, in
// which case output moves to stdout at that level.
func configure(l *Logger, logLevel, warnFail string) {
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.ErrorLevel)
	if logLevel == "" {
		return
	}
	failFast = warnFail
	if failFast != "" {
		logLevel = "debug"
	}
	l.SetOutput(os.Stdout)
	l.SetLevel(parseLevel(logLevel))
	l.WithField("level", l.GetLevel()).Debug("Logging enabled.")
}

func parseLevel(raw string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return logrus.TraceLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.DebugLevel
	}
}

// GetPpaassLogger returns the initialized Logger
func GetPpaassLogger() *Logger {
	if log == nil {
		InitializePpaassLogger()
	}
	return log
}

func init() {
	InitializePpaassLogger()
}
