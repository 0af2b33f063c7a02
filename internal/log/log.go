// Package log provides the audit log for sulaiman. Entries are stored in
// $SULAIMAN_HOME/log/audit.db and record extension loads, phrase
// registrations, activations and commits across sessions.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("sandbox:load", "load").
//		Extension(m.Name).
//		Detail("permissions", m.Permissions).
//		Write(err)
//
//	log.Event("phrase:commit", "commit").
//		Extension(p.Owner()).
//		Phrase(p.Key().String()).
//		Argument(argument).
//		Trailing(trailing).
//		Write(err)
//
// The source parameter follows the format "{component}:{operation}", for
// example "sandbox:load", "phrase:register", "mcp:suggest".
//
// Trailing text is free-form user input (calculator expressions, file
// names). It is never stored verbatim: Trailing records a BLAKE2b digest.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	global     *Logger
	diagnostic = zap.NewNop()
	mu         sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source    string // e.g., "sandbox:load", "phrase:commit"
	Action    string // verb: load, register, activate, commit, etc.
	Extension string // extension the operation belongs to
	Phrase    string // phrase key affected
	Argument  string // argument branch, when the phrase has arguments
	Trailing  string // digest of trailing text, never the text itself

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Extension sets the extension that owns the operation.
func (b *Builder) Extension(name string) *Builder {
	b.entry.Extension = name
	return b
}

// Phrase sets the phrase key affected.
func (b *Builder) Phrase(key string) *Builder {
	b.entry.Phrase = key
	return b
}

// Argument sets the argument branch that matched.
func (b *Builder) Argument(arg string) *Builder {
	b.entry.Argument = arg
	return b
}

// Trailing records a digest of the trailing text. Empty text records nothing.
func (b *Builder) Trailing(text string) *Builder {
	if text != "" {
		b.entry.Trailing = hash(text)
	}
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// permission lists, result counts, timings, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db, session: uuid.NewString()}
	return nil
}

// SetDiagnostic routes audit log failures to l. The terminal shell owns
// stderr, so failures never go there.
func SetDiagnostic(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	diagnostic = l
}

func reporter() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return diagnostic
}

// Session returns the id shared by all entries of this process, or "" if
// the logger is not open.
func Session() string {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		return ""
	}
	return global.session
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
