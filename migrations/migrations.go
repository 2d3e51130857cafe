// Package migrations applies the bundled SQL schema at startup.
package migrations

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Up runs all pending migrations from path against the database at dsn.
// A schema that is already current is not an error.
func Up(dsn, path string, logger *zap.Logger) error {
	migrator, err := migrate.New(fmt.Sprintf("file://%s", path), dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply")
	} else {
		logger.Info("migrations applied")
	}
	return nil
}
