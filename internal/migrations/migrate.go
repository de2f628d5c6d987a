// Package migrations applies the embedded schema with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

const (
	sqliteDialect = "sqlite3"
	migrationsDir = "sql"
)

//go:embed sql/*.sql
var files embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Up runs all pending migrations.
func Up(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(files)
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Version reports the current schema version.
func Version(db *sql.DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(files)
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
