package database

import (
	"database/sql"
	"embed"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/juju/errors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded schema migrations.
func RunMigrations(dsn string, logger *zap.Logger) error {
	if dsn == "" {
		return errors.NotValidf("empty DATABASE_DSN")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return errors.Annotate(err, "could not connect to postgres")
	}
	defer func() {
		_ = db.Close()
	}()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return errors.Annotate(err, "could not start postgres driver")
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Annotate(err, "could not read migrations")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return errors.Annotate(err, "migration failed to start")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Annotate(err, "could not run up migrations")
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
