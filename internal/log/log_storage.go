// log_storage.go implements SQLite-based persistent audit logging.
//
// Separated from log.go to isolate database concerns. The main log.go provides
// the fluent API for building log entries, while this file handles persistence.
// Using SQLite lets users answer "which extension registered this phrase" or
// "what failed to load last session" with a query instead of grepping text.
//
// Design: Logging is best-effort. A phrase commit should succeed even if we
// can't record it in the audit log; the failure goes to the diagnostic log.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"path/filepath"

	"github.com/jpl-au/sulaiman/internal/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	session string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, session, source, action, extension, phrase,
		                 argument, trailing, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.session, e.Source, e.Action,
		nilIfEmpty(e.Extension), nilIfEmpty(e.Phrase),
		nilIfEmpty(e.Argument), nilIfEmpty(e.Trailing),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		reporter().Warn("audit log write failed",
			zap.String("source", e.Source),
			zap.String("action", e.Action),
			zap.Error(err))
	}
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	return filepath.Join(config.Home(), "log", "audit.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash digests free-form user text so entries can be correlated without
// storing what the user typed.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		// Should never happen with nil key, but don't silently ignore
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the log table if it doesn't exist. Safe for concurrent access.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			start     INTEGER NOT NULL,
			end       INTEGER NOT NULL,
			session   TEXT NOT NULL,
			source    TEXT NOT NULL,
			action    TEXT NOT NULL,
			extension TEXT,
			phrase    TEXT,
			argument  TEXT,
			trailing  TEXT,
			success   INTEGER NOT NULL,
			error     TEXT,
			detail    TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_session ON log(session);
		CREATE INDEX IF NOT EXISTS idx_log_extension ON log(extension);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
