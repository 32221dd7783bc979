package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/hanzoai/design-registry/internal/log"
)

const migrationsTable = "schema_migrations"

// migrationDriver runs golang-migrate over an open ncruces connection.
// The connection belongs to DB, so Close leaves it open.
type migrationDriver struct {
	conn   *sql.DB
	locked atomic.Bool
}

var _ database.Driver = (*migrationDriver)(nil)

func newMigrationDriver(conn *sql.DB) (*migrationDriver, error) {
	query := "CREATE TABLE IF NOT EXISTS " + migrationsTable + " (version INTEGER NOT NULL, dirty INTEGER NOT NULL)"
	if _, err := conn.Exec(query); err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(query)}
	}
	return &migrationDriver{conn: conn}, nil
}

func (d *migrationDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("the snapshot migration driver only wraps an open connection")
}

func (d *migrationDriver) Close() error { return nil }

func (d *migrationDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *migrationDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run applies one migration file in a transaction.
func (d *migrationDriver) Run(migration io.Reader) error {
	script, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	tx, err := d.conn.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if _, err := tx.Exec(string(script)); err != nil {
		return &database.Error{OrigErr: errors.Join(err, tx.Rollback()), Query: script}
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

func (d *migrationDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if _, err := tx.Exec("DELETE FROM " + migrationsTable); err != nil {
		return &database.Error{OrigErr: errors.Join(err, tx.Rollback()), Err: "clear schema version"}
	}
	if version >= 0 || (version == database.NilVersion && dirty) {
		if _, err := tx.Exec("INSERT INTO "+migrationsTable+" (version, dirty) VALUES (?, ?)", version, dirty); err != nil {
			return &database.Error{OrigErr: errors.Join(err, tx.Rollback()), Err: "record schema version"}
		}
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

func (d *migrationDriver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	err := d.conn.QueryRow("SELECT version, dirty FROM " + migrationsTable + " LIMIT 1").Scan(&version, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return database.NilVersion, false, nil
	case err != nil:
		return 0, false, &database.Error{OrigErr: err, Err: "read schema version"}
	}
	return version, dirty, nil
}

// Drop removes every user table. Only tests call it.
func (d *migrationDriver) Drop() error {
	rows, err := d.conn.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return err
	}
	for _, name := range tables {
		if _, err := d.conn.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
			return err
		}
	}
	return nil
}

// migrateLogger forwards golang-migrate output to the db category.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Debug(log.CatDB, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrateLogger) Verbose() bool { return false }

// newMigrator pairs the embedded migrations with conn.
func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	drv, err := newMigrationDriver(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrate applies every pending migration.
func (db *DB) migrate() error {
	m, err := newMigrator(db.conn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Debug(log.CatDB, "Schema migrated", "version", version)
	return nil
}
