package api

import (
	"github.com/gorilla/mux"
	"github.com/juju/errors"
	"net/http"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/tracking"
	"strings"
	"time"
)

type milestoneInput struct {
	Name       string     `json:"milestone_name"`
	ActualDate *time.Time `json:"actual_date"`
	Location   string     `json:"location"`
	Notes      string     `json:"notes"`
}

func (s *Server) listMilestoneTypes(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, "", s.tracker.Catalog().Types())
}

// recordMilestone completes a milestone on the shipment. Out-of-order
// milestones are stored and the warning is returned alongside.
func (s *Server) recordMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in milestoneInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		s.fail(w, r, errors.NotValidf("missing milestone_name"))
		return
	}

	update := tracking.MilestoneUpdate{
		Name:      strings.ToUpper(strings.TrimSpace(in.Name)),
		Location:  in.Location,
		Notes:     in.Notes,
		CreatedBy: identity(r.Context()).Email,
	}
	if in.ActualDate != nil {
		update.ActualDate = *in.ActualDate
	}
	result, err := s.tracker.RecordMilestone(r.Context(), id, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry := audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionRecordMilestone,
		EntityType: "milestone",
		EntityID:   ref(result.Milestone.ID),
		New:        result.Milestone,
	}
	if result.Before != nil {
		entry.Old = result.Before
	}
	s.audit(r, entry)

	data := map[string]any{
		"shipment":  result.Shipment,
		"milestone": result.Milestone,
	}
	message := "Milestone recorded"
	if result.Warning != nil {
		data["warning"] = result.Warning.Error()
		message = "Milestone recorded out of order"
	}
	ok(w, http.StatusOK, message, data)
}

func (s *Server) listMilestones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	milestones, err := s.tracker.Milestones(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", milestones)
}

func (s *Server) setExpectedDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in struct {
		ExpectedDate *time.Time `json:"expected_date"`
	}
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.ExpectedDate == nil {
		s.fail(w, r, errors.NotValidf("missing expected_date"))
		return
	}

	name := strings.ToUpper(mux.Vars(r)["name"])
	milestone, err := s.tracker.SetExpectedDate(r.Context(), id, name, *in.ExpectedDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionUpdate,
		EntityType: "milestone",
		EntityID:   ref(milestone.ID),
		New:        milestone,
	})
	ok(w, http.StatusOK, "Expected date set", milestone)
}

func (s *Server) deriveStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, current, err := s.tracker.DeriveStatus(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", map[string]string{
		"current_status":    status,
		"current_milestone": current,
	})
}
