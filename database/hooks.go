package database

import (
	"github.com/juju/clock"
	"gorm.io/gorm"
)

const timestampHookName = "shipments:touch_updated_at"

// RegisterTimestampHook stamps updated_at on every update statement against a
// table that has the column, including UpdateColumn(s) calls that bypass
// gorm's own auto-update handling.
func RegisterTimestampHook(db *gorm.DB, clk clock.Clock) error {
	return db.Callback().Update().Before("gorm:update").Register(timestampHookName, func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Schema == nil {
			return
		}
		field := tx.Statement.Schema.LookUpField("updated_at")
		if field == nil {
			return
		}
		tx.Statement.SetColumn(field.DBName, clk.Now().UTC(), true)
	})
}
