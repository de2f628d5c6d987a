// Package db opens the SQLite database backing the registries.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryPath keeps the database in process memory for the session only.
const MemoryPath = ":memory:"

// Open opens a SQLite database, sets pragmas and validates connectivity. An
// in-memory database is pinned to a single connection since every connection
// would otherwise see its own empty database.
func Open(dbPath string) (*sql.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		dbPath = MemoryPath
	}
	inMemory := dbPath == MemoryPath

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if inMemory {
		db.SetMaxOpenConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	}

	pragmas := `
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`
	if !inMemory {
		pragmas = "PRAGMA journal_mode = WAL;" + pragmas
	}
	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}
