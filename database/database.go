package database

import (
	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"time"
)

// GormConfig returns the gorm settings shared by every connection. Driver
// errors are translated so that constraint failures surface as
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func GormConfig(clk clock.Clock) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return clk.Now().UTC()
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Open connects to Postgres and installs the update hook.
func Open(dsn string, clk clock.Clock) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig(clk))
	if err != nil {
		return nil, errors.Annotate(err, "opening postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RegisterTimestampHook(db, clk); err != nil {
		return nil, errors.Trace(err)
	}
	return db, nil
}
