// Package repotest provides in-memory databases for package tests.
package repotest

import (
	"fmt"
	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"shipment-tracking-service/database"
	"shipment-tracking-service/models"
)

// NewDB opens a private in-memory SQLite database with foreign keys
// enforced, the schema created from the models and the updated_at hook
// installed.
func NewDB(c *qt.C, clk clock.Clock) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(clk))
	c.Assert(err, qt.IsNil)

	sqlDB, err := db.DB()
	c.Assert(err, qt.IsNil)
	sqlDB.SetMaxOpenConns(1)
	c.Cleanup(func() {
		_ = sqlDB.Close()
	})

	c.Assert(database.RegisterTimestampHook(db, clk), qt.IsNil)
	c.Assert(db.AutoMigrate(models.All()...), qt.IsNil)
	return db
}
