package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/migrations"
)

// NewMigrator returns a migrate instance for databaseURL.
// An empty dir uses the SQL files embedded in the binary; otherwise files are read from dir.
func NewMigrator(databaseURL, dir string) (*migrate.Migrate, error) {
	if dir != "" {
		m, err := migrate.New("file://"+dir, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("init migrations from %s: %w", dir, err)
		}
		return m, nil
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init embedded migrations: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending embedded migration.
func MigrateUp(databaseURL string, log zerolog.Logger) error {
	m, err := NewMigrator(databaseURL, "")
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema up to date")
	return nil
}
