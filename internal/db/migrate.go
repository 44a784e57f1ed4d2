package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.up.sql
var migrationFS embed.FS

// MigrationResult reports the schema version before and after Migrate.
type MigrationResult struct {
	From uint
	To   uint
}

// Applied reports whether Migrate moved the schema forward.
func (r MigrationResult) Applied() bool {
	return r.To != r.From
}

// Migrate applies every embedded migration newer than the current schema
// version. Cancelling ctx stops after the migration in progress.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (MigrationResult, error) {
	var res MigrationResult

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return res, fmt.Errorf("failed to open migrations: %w", err)
	}

	// Migrations run on their own connection so closing the migrator leaves the pool alone.
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig.Copy())
	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return res, fmt.Errorf("failed to init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = driver.Close()
		return res, fmt.Errorf("failed to init migrator: %w", err)
	}
	defer m.Close()

	if res.From, err = version(m); err != nil {
		return res, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return res, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if res.To, err = version(m); err != nil {
		return res, err
	}
	return res, nil
}

func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}
