// Package diag provides the diagnostic logger.
//
// The shell owns the terminal, so diagnostics go to a JSON log file under
// the sulaiman home directory rather than stderr. Extension stdout and
// stderr are routed through LineWriter, one log entry per line, tagged
// with the extension name.
package diag

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jpl-au/sulaiman/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the diagnostic log file inside the home directory.
const FileName = "sulaiman.log"

// Path returns the diagnostic log location.
func Path() string {
	return filepath.Join(config.Home(), FileName)
}

// New builds a production zap logger writing to path.
func New(path string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Open builds the logger at the default location.
func Open(verbose bool) (*zap.Logger, error) {
	return New(Path(), verbose)
}

// LineWriter is an io.Writer that logs each complete line it receives.
type LineWriter struct {
	mu     sync.Mutex
	logger *zap.Logger
	stream string
	buf    []byte
}

// NewLineWriter returns a writer logging lines for stream ("stdout",
// "stderr") through logger.
func NewLineWriter(logger *zap.Logger, stream string) *LineWriter {
	return &LineWriter{logger: logger, stream: stream}
}

// Write buffers p and logs every complete line.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(bytes.TrimRight(w.buf[:i], "\r")))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

func (w *LineWriter) emit(line string) {
	if w.stream == "stderr" {
		w.logger.Warn(line, zap.String("stream", w.stream))
		return
	}
	w.logger.Info(line, zap.String("stream", w.stream))
}
