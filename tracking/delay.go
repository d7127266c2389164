package tracking

import (
	"shipment-tracking-service/models"
	"time"
)

// CheckDelayed reports whether m is late: its expected date has passed and
// it has no actual date. Once an actual date is set it is never delayed, no
// matter how late it was.
func CheckDelayed(m models.Milestone, now time.Time) bool {
	if m.ActualDate != nil || m.ExpectedDate == nil {
		return false
	}
	return m.ExpectedDate.Before(now)
}

// EffectiveStatus is the status to present for m at now.
func EffectiveStatus(m models.Milestone, now time.Time) models.MilestoneStatus {
	if m.ActualDate != nil {
		return models.MilestoneCompleted
	}
	if CheckDelayed(m, now) {
		return models.MilestoneDelayed
	}
	if m.Status == "" || m.Status == models.MilestoneDelayed {
		return models.MilestonePending
	}
	return m.Status
}
