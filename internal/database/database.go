package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Database struct {
	db     *sqlx.DB
	driver string
}

// DriverFor picks the sql driver for a DB_URL. Anything that is not a
// postgres URL is handed to SQLite, including ":memory:".
func DriverFor(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Connect opens the link store and brings its schema up to date.
func Connect(ctx context.Context, url string) (*Database, error) {
	driver := DriverFor(url)

	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// each new connection to ":memory:" is a separate, empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	d := &Database{db: db, driver: driver}

	if err := d.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return d, nil
}

func (d *Database) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	var driver migratedb.Driver
	switch d.driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(d.db.DB, &postgres.Config{})
	default:
		driver, err = migratesqlite.WithInstance(d.db.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance(
		"iofs", src,
		d.driver, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	slog.Info("Database migrations applied successfully", "driver", d.driver)
	return nil
}

func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	return d.db.Close()
}
