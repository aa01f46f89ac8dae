package infrastructure

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"profitgo/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const sqliteDialect = "sqlite3"

// OpenSQLite opens a SQLite database, sets pragmas and validates connectivity.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}

// MigrateSQLite applies the embedded schema migrations.
func MigrateSQLite(db *sql.DB, log *logger.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(log)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
