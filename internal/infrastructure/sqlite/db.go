// Package sqlite stores registry index snapshots in a SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/hanzoai/design-registry/internal/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB owns the connection to a snapshot database.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the database at path, creating the file and its directory if
// needed, and applies pending migrations. An existing file is copied to
// path+".bak" before migrating.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := backup(path); err != nil {
		return nil, err
	}

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatDB, "Opened snapshot database", "path", path)
	return db, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// SnapshotRepository returns the snapshot repository backed by db.
func (db *DB) SnapshotRepository() *SnapshotRepository {
	return newSnapshotRepository(db.conn)
}

// backup copies an existing, non-empty database file to path.bak.
func backup(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil || info.Size() == 0 {
		return err
	}

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create database backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to write database backup: %w", err)
	}
	return dst.Close()
}
