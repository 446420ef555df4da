package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/pressly/goose/v3"
)

// Dir is the embedded migrations directory.
const Dir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

func dialectFor(driver string) (string, error) {
	switch driver {
	case config.DBDriverPostgres:
		return "postgres", nil
	case config.DBDriverSQLite, "":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// Up applies every pending embedded migration.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		if err := goose.UpContext(ctx, db, Dir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		if err := goose.DownContext(ctx, db, Dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	})
}

// Version reports the current schema version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := withGoose(driver, func() error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(driver string, fn func() error) error {
	dialect, err := dialectFor(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}
