package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	// registers the "pgx" database/sql driver goose runs on
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals
var gooseMu sync.Mutex

func withGoose(connString string, fn func(db *sql.DB) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToOpenMigrationDB, err)
	}
	defer db.Close()

	return fn(db)
}

// Migrate applies every pending embedded migration
func Migrate(ctx context.Context, connString string) error {
	err := withGoose(connString, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, MigrationsDir)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}
	slog.Default().Info(LogMsgMigrationsApplied)
	return nil
}

// MigrateDown rolls back the most recent migration
func MigrateDown(ctx context.Context, connString string) error {
	return withGoose(connString, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, MigrationsDir)
	})
}

// MigrationVersion returns the current schema version
func MigrationVersion(ctx context.Context, connString string) (int64, error) {
	var version int64
	err := withGoose(connString, func(db *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}

// MigrationStatus logs the applied state of every migration
func MigrationStatus(ctx context.Context, connString string) error {
	return withGoose(connString, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, MigrationsDir)
	})
}
