// Package migrations embeds the SQL schema migrations and applies them with
// goose. Both the server (on startup) and cmd/migrate use the same files.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

// Run applies all pending migrations to the given database.
func Run(db *sql.DB) error {
	mu.Lock()
	defer mu.Unlock()

	if err := Setup(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Setup points goose at the embedded files and the SQLite dialect.
func Setup() error {
	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}
