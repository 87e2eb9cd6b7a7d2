package db

import (
	"database/sql"
	"errors"
	"fmt"

	"fodinha-server/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // postgres driver
)

// ErrNotConfigured is returned when no database DSN is configured
var ErrNotConfigured = errors.New("no database configured")

var instance *sql.DB

// Instance returns a database instance
func Instance() *sql.DB {
	if instance == nil {
		if err := LoadInstance(); err != nil {
			panic(err)
		}
	}

	return instance
}

// LoadInstance will load the database instance from the configured DSN
func LoadInstance() error {
	db, err := Open(config.Instance().PGDSN)
	if err != nil {
		return err
	}

	instance = db
	return nil
}

// Open opens and pings a postgres database
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrNotConfigured
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not reach database: %w", err)
	}

	return db, nil
}

// Migrate runs the migrations
func Migrate(db *sql.DB) error {
	migrationsPath := config.Instance().MigrationsPath

	logrus.WithField("migrationsPath", migrationsPath).Info("running migrations")
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Scanner is an interface that sql should've provided
// No snark here...
type Scanner interface {
	Scan(...interface{}) error
}
