// Package store provides the SQLite-backed storage gateway for recipes and ingredients.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// dsnParams are appended to every file DSN. _txlock=immediate takes the write
// lock at BEGIN so read-then-update units of work serialize instead of failing
// on lock upgrade.
const dsnParams = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"

// DB wraps a sqlx.DB and mints one transactional Session per unit of work.
type DB struct {
	conn *sqlx.DB
}

// Open opens (or creates) the SQLite database at path. The schema is not
// applied here; call Init before serving traffic.
func Open(path string) (*DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	conn, err := sqlx.Open("sqlite3", path+sep+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &DB{conn: conn}, nil
}

// New wraps an already opened handle.
func New(conn *sql.DB, driverName string) *DB {
	return &DB{conn: sqlx.NewDb(conn, driverName)}
}

// Init applies the schema. It is safe to call more than once.
func (db *DB) Init(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
