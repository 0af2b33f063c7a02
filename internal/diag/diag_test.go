package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLineWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewLineWriter(zap.New(core), "stdout")

	fmt.Fprint(w, "hello ")
	fmt.Fprint(w, "world\nsecond\r\nthi")
	assert.Equal(t, 2, logs.Len())

	w.Flush()
	w.Flush()

	var got []string
	for _, e := range logs.All() {
		got = append(got, e.Message)
		assert.Equal(t, "stdout", e.ContextMap()["stream"])
	}
	assert.Equal(t, []string{"hello world", "second", "thi"}, got)
}

func TestLineWriter_StderrWarns(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewLineWriter(zap.New(core), "stderr")
	fmt.Fprintln(w, "oops")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)
	logger, err := New(path, true)
	require.NoError(t, err)

	logger.Debug("debug line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
}

func TestPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SULAIMAN_HOME", home)
	assert.Equal(t, filepath.Join(home, FileName), Path())
}
