package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations
type Migrator struct {
	migrator *migrate.Migrate
	logger   zerolog.Logger
}

// NewMigrator prepares a migrator bound to an open connection. The migrator
// takes ownership of conn.
func NewMigrator(conn *Connection, logger zerolog.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(conn.GetDB(), &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Migrator{
		migrator: m,
		logger:   logger.With().Str("component", "migrator").Logger(),
	}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	if err := m.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	m.logVersion()
	return nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	if err := m.migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logVersion()
	return nil
}

func (m *Migrator) logVersion() {
	version, dirty, err := m.migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		m.logger.Info().Msg("Schema has no migrations applied")
	case err != nil:
		m.logger.Warn().Err(err).Msg("Failed to read schema version")
	default:
		m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
	}
}

// Close releases the migrator along with the connection it was built on
func (m *Migrator) Close() error {
	sourceErr, databaseErr := m.migrator.Close()
	if sourceErr != nil {
		return fmt.Errorf("error closing migrator source: %w", sourceErr)
	}
	if databaseErr != nil {
		return fmt.Errorf("error closing migrator database: %w", databaseErr)
	}
	return nil
}
