package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/pfscript/internal/core"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no catalog row matches
var ErrNotFound = errors.New("script not found in catalog")

// timestamps are stored as fixed width UTC text so they sort correctly
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is the generated-script catalog with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New opens (creating if needed) the catalog at dbPath
func New(ctx context.Context, dbPath string) (*DB, error) {
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	// sqlite allows a single writer
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)

	db := &DB{write: write, read: read, path: dbPath}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

// Close closes both pools
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS scripts (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    path TEXT NOT NULL,
    study_case TEXT NOT NULL DEFAULT '',
    export_path TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_scripts_kind ON scripts(kind);
CREATE INDEX IF NOT EXISTS idx_scripts_created ON scripts(created_at);
`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// scriptMetadata holds the fields without a column of their own
type scriptMetadata struct {
	Name string `json:"name,omitempty"`
}

// Create records a generated script
func (db *DB) Create(ctx context.Context, script *core.GeneratedScript) error {
	metadataJSON, err := json.Marshal(scriptMetadata{Name: script.Name})
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
INSERT INTO scripts (id, kind, path, study_case, export_path, created_at, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err = db.write.ExecContext(ctx, query,
		script.ID,
		string(script.Kind),
		script.Path,
		script.StudyCase,
		script.ExportPath,
		script.CreatedAt.UTC().Format(timeLayout),
		string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

// Get returns the script recorded under id
func (db *DB) Get(ctx context.Context, id string) (*core.GeneratedScript, error) {
	query := `
SELECT id, kind, path, study_case, export_path, created_at, metadata
FROM scripts WHERE id = ?
`
	script, err := scanScript(db.read.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query script: %w", err)
	}
	return script, nil
}

// Find returns the script whose id starts with prefix. A prefix matching
// more than one row is an error.
func (db *DB) Find(ctx context.Context, prefix string) (*core.GeneratedScript, error) {
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	query := `
SELECT id, kind, path, study_case, export_path, created_at, metadata
FROM scripts WHERE substr(id, 1, ?) = ? LIMIT 2
`
	rows, err := db.read.QueryContext(ctx, query, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("query script: %w", err)
	}
	defer rows.Close()

	var matches []*core.GeneratedScript
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		matches = append(matches, script)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches more than one script", prefix)
	}
}

// List returns recorded scripts, newest first. An empty kind lists all.
func (db *DB) List(ctx context.Context, kind core.ScriptKind) ([]*core.GeneratedScript, error) {
	query := `
SELECT id, kind, path, study_case, export_path, created_at, metadata
FROM scripts WHERE (? = '' OR kind = ?) ORDER BY created_at DESC, rowid DESC
`
	rows, err := db.read.QueryContext(ctx, query, string(kind), string(kind))
	if err != nil {
		return nil, fmt.Errorf("query scripts: %w", err)
	}
	defer rows.Close()

	var scripts []*core.GeneratedScript
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, script)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return scripts, nil
}

// Delete removes the catalog row for id. The script file is left alone.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.write.ExecContext(ctx, "DELETE FROM scripts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScript(row scanner) (*core.GeneratedScript, error) {
	var (
		script       core.GeneratedScript
		kind         string
		createdAt    string
		metadataJSON string
	)
	err := row.Scan(
		&script.ID,
		&kind,
		&script.Path,
		&script.StudyCase,
		&script.ExportPath,
		&createdAt,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	script.Kind = core.ScriptKind(kind)
	if script.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	var meta scriptMetadata
	if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	script.Name = meta.Name

	return &script, nil
}
