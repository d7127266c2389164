package tracking

import "github.com/juju/errors"

const (
	// ErrUnknownMilestoneType rejects a milestone name that is not in the
	// catalog. Nothing is written.
	ErrUnknownMilestoneType = errors.ConstError("unknown milestone type")

	// ErrMilestoneOutOfOrder is a warning carried on RecordResult when a
	// milestone does not advance the shipment. The write still happens.
	ErrMilestoneOutOfOrder = errors.ConstError("milestone out of order")
)
