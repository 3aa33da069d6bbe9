// Package storage opens the server's database and applies migrations. Two
// drivers are supported: embedded sqlite for single-node deployments and
// tests, postgres (via pgx) for everything else.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkhodakov/habitsync/internal/server/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Manager struct {
	db     *sql.DB
	driver string
}

func Open(driver, dsn string) (*Manager, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &Manager{db: db, driver: driver}, nil
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func (m *Manager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	dialect := "sqlite3"
	if m.driver == DriverPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *Manager) Close() error {
	return m.db.Close()
}
