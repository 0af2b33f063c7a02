// Package sandbox loads untrusted extensions into isolated interpreters.
//
// Each extension is Go source evaluated by its own yaegi interpreter. The
// loader validates the manifest, computes the extension's capabilities,
// resolves its declared modules, checks every import in the extension's
// source against that set, and only then evaluates the entry script once.
// The interpreter sees the visible host symbols of package sulaiman and
// the resolved modules, with an empty environment and no arguments.
// Extension output goes to the diagnostic log.
//
// Load failures are per extension. A failing script is isolated: its
// error or panic is recorded, anything it registered is undone through
// the Cleanup hook, and loading continues with the next extension.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jpl-au/sulaiman/internal/diag"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/manifest"
	"github.com/traefik/yaegi/interp"
	"go.uber.org/zap"
)

// Status is the outcome of loading one extension.
type Status string

const (
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Extension records one load attempt.
type Extension struct {
	Name         string
	Dir          string
	Manifest     *manifest.Manifest
	Capabilities Capabilities
	Status       Status
	Err          error
	Elapsed      time.Duration
}

// SymbolFunc returns the host symbols for one extension. It is called
// after the capability table is built, so implementations may bind
// per-extension state such as the owner name.
type SymbolFunc func(m *manifest.Manifest, caps Capabilities) []Symbol

// Options configures a Loader.
type Options struct {
	Symbols SymbolFunc
	Logger  *zap.Logger
	// Cleanup undoes whatever a failed extension managed to register.
	Cleanup func(name string)
	// GOOS overrides the host platform for platform checks.
	GOOS string
	// Timeout bounds evaluation of one entry script. Defaults to
	// DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is how long an entry script may run before its load fails.
const DefaultTimeout = 5 * time.Second

// Loader loads extensions. Not safe for concurrent use; loading runs
// sequentially at startup.
type Loader struct {
	opts   Options
	theme  string
	loaded map[string]bool
}

// NewLoader creates a loader.
func NewLoader(opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Loader{opts: opts, loaded: make(map[string]bool)}
}

// ThemeOwner returns the name of the extension holding the theme claim.
func (l *Loader) ThemeOwner() string { return l.theme }

// Load evaluates the extension rooted at root.
func (l *Loader) Load(ctx context.Context, m *manifest.Manifest, root string) (*Extension, error) {
	ext := &Extension{Dir: root, Manifest: m}
	if m != nil {
		ext.Name = m.Name
	}
	start := time.Now()
	err := l.load(ctx, ext, m, root)
	l.finish(ext, err, start)
	return ext, err
}

func (l *Loader) load(ctx context.Context, ext *Extension, m *manifest.Manifest, root string) (err error) {
	if m == nil {
		return fmt.Errorf("%w: no manifest", ErrManifestInvalid)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}
	if l.loaded[m.Name] {
		return fmt.Errorf("%w: duplicate extension name %q", ErrManifestInvalid, m.Name)
	}

	b := NewBuilder(m.Theme)
	for _, p := range m.Permissions {
		if err := b.Grant(p); err != nil {
			return err
		}
	}
	caps := b.Build()
	ext.Capabilities = caps

	if !m.SupportsPlatform(l.opts.GOOS) {
		return fmt.Errorf("%w: %s not in %v", ErrPlatformUnsupported, l.opts.GOOS, m.Platform)
	}

	if m.Theme {
		if l.theme != "" {
			return fmt.Errorf("%w: by %s", ErrThemeConflict, l.theme)
		}
		l.theme = m.Name
		defer func() {
			if err != nil {
				l.theme = ""
			}
		}()
	}

	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	s, err := resolve(m.Modules, caps, root)
	if err != nil {
		return err
	}

	entry, err := resolveFile(root, m.Entry())
	if err != nil {
		return err
	}
	src, err := os.ReadFile(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if err := checkImports(entry, src, s); err != nil {
		return err
	}
	for _, dir := range s.external {
		files, err := sources(root, dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := checkImports(f, nil, s); err != nil {
				return err
			}
		}
	}

	l.loaded[m.Name] = true
	if err := l.evaluate(ctx, m, root, caps, s, src); err != nil {
		delete(l.loaded, m.Name)
		if l.opts.Cleanup != nil {
			l.opts.Cleanup(m.Name)
		}
		return err
	}
	return nil
}

// evaluate runs the entry script in a fresh interpreter.
func (l *Loader) evaluate(ctx context.Context, m *manifest.Manifest, root string, caps Capabilities, s seed, src []byte) (err error) {
	logger := l.opts.Logger.With(zap.String("extension", m.Name))
	stdout := diag.NewLineWriter(logger, "stdout")
	stderr := diag.NewLineWriter(logger, "stderr")
	defer stdout.Flush()
	defer stderr.Flush()

	i := interp.New(interp.Options{
		GoPath: root,
		Stdin:  bytes.NewReader(nil),
		Stdout: stdout,
		Stderr: stderr,
		Env:    []string{},
		Args:   []string{},
	})

	var host []Symbol
	if l.opts.Symbols != nil {
		host = l.opts.Symbols(m, caps)
	}
	if err := i.Use(exports(host, caps, s)); err != nil {
		return fmt.Errorf("%w: seeding interpreter: %v", ErrEvaluation, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrEvaluation, r)
		}
	}()
	// Goroutines started by main outlive the timeout; only main is bounded.
	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()
	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		var p interp.Panic
		if errors.As(err, &p) {
			return fmt.Errorf("%w: panic: %v", ErrEvaluation, p.Value)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: entry script still running after %s", ErrEvaluation, l.opts.Timeout)
		}
		return fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	return nil
}

// finish records the outcome in the extension, the audit log and the
// diagnostic log.
func (l *Loader) finish(ext *Extension, err error, start time.Time) {
	ext.Elapsed = time.Since(start)
	ext.Err = err
	audit := err
	switch {
	case err == nil:
		ext.Status = StatusLoaded
	case errors.Is(err, ErrPlatformUnsupported):
		ext.Status = StatusSkipped
		audit = nil
	default:
		ext.Status = StatusFailed
	}

	entry := log.Event("sandbox:load", "load").
		Extension(ext.Name).
		Detail("status", string(ext.Status))
	if ext.Manifest != nil {
		entry.Detail("permissions", ext.Manifest.Permissions)
	}
	entry.Write(audit)

	fields := []zap.Field{
		zap.String("extension", ext.Name),
		zap.String("status", string(ext.Status)),
		zap.Duration("elapsed", ext.Elapsed),
	}
	switch ext.Status {
	case StatusFailed:
		l.opts.Logger.Error("extension load failed", append(fields, zap.Error(err))...)
	case StatusSkipped:
		l.opts.Logger.Info("extension skipped", append(fields, zap.Error(err))...)
	default:
		l.opts.Logger.Info("extension loaded", fields...)
	}
}

// LoadDir loads every extension directory under dir in listing order.
// A missing dir yields no extensions.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*Extension, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading extensions: %w", err)
	}

	var out []*Extension
	for _, e := range entries {
		root := filepath.Join(dir, e.Name())
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		m, err := manifest.Read(root)
		if err != nil {
			ext := &Extension{Name: e.Name(), Dir: root}
			l.finish(ext, fmt.Errorf("%w: %w", ErrManifestInvalid, err), time.Now())
			out = append(out, ext)
			continue
		}
		ext, _ := l.Load(ctx, m, root)
		out = append(out, ext)
	}
	return out, nil
}

// Count tallies extensions by status.
func Count(exts []*Extension) (loaded, failed, skipped int) {
	for _, e := range exts {
		switch e.Status {
		case StatusLoaded:
			loaded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return loaded, failed, skipped
}
