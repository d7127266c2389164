package audit

import (
	"context"
	"encoding/json"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
)

const (
	ActionCreate          = "CREATE"
	ActionUpdate          = "UPDATE"
	ActionDelete          = "DELETE"
	ActionRecordMilestone = "RECORD_MILESTONE"
)

// Actor identifies who made a change and from where.
type Actor struct {
	UserID *uint
	Email  string
	IP     string
}

// Entry describes one change. Old and New are snapshotted as JSON; nil
// values are stored as NULL.
type Entry struct {
	ShipmentID *uint
	Action     string
	EntityType string
	EntityID   *uint
	Old        any
	New        any
}

// Archive receives a copy of every stored audit row.
type Archive interface {
	Archive(ctx context.Context, entry models.AuditLog) error
}

type Recorder struct {
	repo    *repositories.Repository
	archive Archive
	logger  *zap.Logger
}

// NewRecorder returns a recorder writing to repo. archive may be nil.
func NewRecorder(repo *repositories.Repository, archive Archive, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:    repo,
		archive: archive,
		logger:  logger,
	}
}

// Record appends an audit row. Archive failures are logged and otherwise ignored.
func (r *Recorder) Record(ctx context.Context, actor Actor, e Entry) (*models.AuditLog, error) {
	oldValue, err := snapshot(e.Old)
	if err != nil {
		return nil, errors.Annotatef(err, "snapshotting old %s", e.EntityType)
	}
	newValue, err := snapshot(e.New)
	if err != nil {
		return nil, errors.Annotatef(err, "snapshotting new %s", e.EntityType)
	}

	row := &models.AuditLog{
		ShipmentID: e.ShipmentID,
		UserID:     actor.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValue:   oldValue,
		NewValue:   newValue,
		UserEmail:  actor.Email,
		IPAddress:  actor.IP,
	}
	if err := r.repo.CreateAuditLog(ctx, row); err != nil {
		return nil, err
	}

	if r.archive != nil {
		if err := r.archive.Archive(ctx, *row); err != nil {
			r.logger.Warn("Failed to archive audit entry",
				zap.Uint("log_id", row.ID),
				zap.String("action", row.Action),
				zap.Error(err))
		}
	}
	return row, nil
}

func snapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return datatypes.JSON(b), nil
}
