package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Source returns the schema and menu seed migrations compiled into the binary.
func Source() (source.Driver, error) {
	return iofs.New(migrations, "migrations")
}

func RunMigrations(dsn string, logger *zap.Logger) error {
	conn, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer conn.Close()

	src, err := Source()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	target, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres migration target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}

	// a fresh database has no version yet and reports 0
	from, _, _ := m.Version()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema up to date", zap.Uint("version", from))
		return nil
	case err != nil:
		return fmt.Errorf("migrate up from %d: %w", from, err)
	}

	to, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("schema migrated",
		zap.Uint("from", from),
		zap.Uint("to", to),
		zap.Bool("dirty", dirty))
	return nil
}
