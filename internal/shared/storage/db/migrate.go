package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var (
	gooseSetup    sync.Once
	gooseSetupErr error
)

func setupGoose() error {
	gooseSetup.Do(func() {
		goose.SetBaseFS(migrationFiles)
		gooseSetupErr = goose.SetDialect("postgres")
	})
	return gooseSetupErr
}

// RunMigrations applies the embedded goose migrations. A nil database is a no-op
// so memory-backed development runs share the same boot path.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version, 0 for a nil database.
func SchemaVersion(database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	if err := setupGoose(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(database)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}
