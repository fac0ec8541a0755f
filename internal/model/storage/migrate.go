package storage

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations brings the schema up to date. It opens its own connection
// because the migrate instance closes the database it was given.
func RunMigrations(driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return errors.Wrap(err, "open migration database")
	}
	return migrateDB(db, driver, "migrations/"+driver)
}

// migrateDB applies the migrations found in dir and always closes db.
func migrateDB(db *sql.DB, driver, dir string) error {
	var err error
	var dbDriver database.Driver
	switch driver {
	case DriverPostgres:
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		err = errors.Errorf("unsupported driver %s", driver)
	}
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create migration driver")
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		closeDriver(dbDriver)
		return errors.Wrap(err, "create migration source")
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		closeDriver(dbDriver)
		_ = source.Close()
		return errors.Wrap(err, "create migrate instance")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Error("failed to close migrate instance", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}

	version, _, _ := m.Version()
	logger.Info("schema is up to date", zap.String("driver", driver), zap.Uint("version", version))
	return nil
}

// closeDriver releases a driver that never reached a migrate instance, it
// also closes the underlying database.
func closeDriver(d database.Driver) {
	if err := d.Close(); err != nil {
		logger.Error("failed to close migration driver", zap.Error(err))
	}
}
