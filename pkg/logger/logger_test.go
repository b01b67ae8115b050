package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level Level) Logger {
	return NewWithConfig(Config{Level: level, Writer: buf, NoColor: true})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, WarnLevel)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown warn")
	l.Errorf("shown %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  shown warn")
	assert.Contains(t, out, "ERROR shown error")
}

func TestFieldsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, DebugLevel).
		WithPrefix("watch").
		WithFields(map[string]interface{}{"id": "abc", "attempt": 1})

	l.Info("connected")

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, "INFO  [watch] attempt=1 id=abc connected", line)
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithConfig(Config{Level: InfoLevel, Writer: &buf, NoColor: true})
	child := parent.WithField("k", "v")

	p := parent.(*logger)
	p.state.level = ErrorLevel

	child.Info("suppressed")
	assert.Empty(t, buf.String())
}

func TestFatalCallsExit(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, InfoLevel).(*logger)
	code := -1
	l.state.exit = func(c int) { code = c }

	l.Fatal("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL boom")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestTableRender(t *testing.T) {
	SetNoColor(true)
	tbl := NewTable("KEY", "TYPE")
	tbl.AddRow("angle", "float")
	tbl.AddRow("mode", "enum")

	out := tbl.Render()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "angle")
	assert.Contains(t, out, "enum")
	assert.Equal(t, 2, tbl.Len())

	assert.Empty(t, NewTable().Render())
}

func TestProgressBarString(t *testing.T) {
	SetNoColor(true)
	var buf bytes.Buffer
	bar := NewProgressBarTo(&buf, 100, "cfg")
	bar.SetStatus("RUNNING")
	bar.Update(50)

	s := bar.String()
	assert.True(t, strings.HasPrefix(s, "cfg: ["))
	assert.Contains(t, s, " 50% RUNNING")
	assert.Equal(t, 20, strings.Count(s, "█"))

	bar.Update(250)
	assert.Contains(t, bar.String(), "100%")
	assert.Contains(t, buf.String(), "\r")
}
