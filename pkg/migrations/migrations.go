package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// IsRemote reports whether the dsn points to a libSQL server rather than a
// local SQLite file.
func IsRemote(dsn string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// OpenDB opens a local SQLite database (a path or ":memory:") or a remote
// libSQL database.
func OpenDB(dsn string) (*sql.DB, error) {
	if IsRemote(dsn) {
		db, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
		return db, nil
	}

	if dsn != ":memory:" {
		err := os.MkdirAll(filepath.Dir(dsn), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}

	return db, nil
}

// Statements splits a schema into its statements, `--` comments are dropped.
func Statements(schema string) []string {
	var lines []string
	for _, line := range strings.Split(schema, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		lines = append(lines, line)
	}

	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func wrapMigrate(err error) error {
	return fmt.Errorf("migrate db: %w", err)
}

// Migrate applies every statement of an idempotent schema in one transaction.
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapMigrate(err)
	}
	defer tx.Rollback()

	for _, stmt := range Statements(schema) {
		_, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return wrapMigrate(fmt.Errorf("%w: %s", err, stmt))
		}
	}
	err = tx.Commit()
	if err != nil {
		return wrapMigrate(err)
	}
	return nil
}

func OpenAndMigrateDB(ctx context.Context, schema, dsn string) (*sql.DB, error) {
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	err = Migrate(ctx, db, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
