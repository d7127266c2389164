package repositories

import (
	"fmt"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

const (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.ConstError("not found")

	// ErrConstraintViolation is returned when a uniqueness or foreign-key
	// constraint rejects a write. It is never retried.
	ErrConstraintViolation = errors.ConstError("constraint violation")
)

// translate maps driver and gorm errors onto the package taxonomy. what
// describes the row involved, e.g. "shipment 12".
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %v", what, ErrConstraintViolation, err)
	}
	return errors.Annotate(err, what)
}

func checkAffected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return nil
}
