package logger

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"TRACE":   logrus.TraceLevel,
		" info ":  logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"verbose": logrus.DebugLevel,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parseLevel(raw), raw)
	}
}

func TestGetPpaassLoggerIsShared(t *testing.T) {
	assert.Same(t, GetPpaassLogger(), GetPpaassLogger())
}

func TestEntryCarriesFields(t *testing.T) {
	l := GetPpaassLogger()
	hook := logtest.NewLocal(l.Logger)
	level := l.GetLevel()
	l.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		l.SetLevel(level)
		hook.Reset()
	})

	l.WithFields(Fields{"at": "test", "reason": "checking"}).WithField("n", 3).Error("boom")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "test", entry.Data["at"])
	assert.Equal(t, "checking", entry.Data["reason"])
	assert.Equal(t, 3, entry.Data["n"])
}

func TestReportIgnoresWarnFail(t *testing.T) {
	l := GetPpaassLogger()
	hook := logtest.NewLocal(l.Logger)
	level := l.GetLevel()
	exit := l.ExitFunc
	var exits []int
	l.ExitFunc = func(code int) { exits = append(exits, code) }
	l.SetLevel(logrus.DebugLevel)
	SetWarnFail(true)
	t.Cleanup(func() {
		SetWarnFail(false)
		l.ExitFunc = exit
		l.SetLevel(level)
		hook.Reset()
	})
	require.True(t, WarnFail())

	l.WithField("at", "test").Report(logrus.ErrorLevel, "survivable")
	assert.Empty(t, exits)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "survivable", entry.Message)
	assert.Equal(t, "test", entry.Data["at"])

	l.WithField("at", "test").Error("fatal in warn-fail mode")
	assert.Equal(t, []int{1}, exits)
}

func TestConfigureReportsErrorsByDefault(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	configure(l, "", "")
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.Equal(t, os.Stderr, l.Out)
	assert.False(t, WarnFail())
}

func TestConfigureFromEnvironmentValues(t *testing.T) {
	t.Cleanup(func() { SetWarnFail(false) })

	l := &Logger{Logger: logrus.New()}
	configure(l, "warn", "")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.Equal(t, os.Stdout, l.Out)
	assert.False(t, WarnFail())

	l = &Logger{Logger: logrus.New()}
	configure(l, "error", "1")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.True(t, WarnFail())
}
