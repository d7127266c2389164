package api

import (
	"github.com/juju/errors"
	"go.uber.org/zap"
	"net/http"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/tracking"
	"strings"
)

// shipmentInput carries the editable shipment attributes. Status fields
// are derived from milestones and cannot be set directly.
type shipmentInput struct {
	BookingNumber   *string `json:"booking_number"`
	ContainerNumber *string `json:"container_number"`
	VesselName      *string `json:"vessel_name"`
	VoyageNumber    *string `json:"voyage_number"`
	SteamshipLine   *string `json:"steamship_line"`
	RailProvider    *string `json:"rail_provider"`
	MasterBL        *string `json:"master_bl"`
	HouseBL         *string `json:"house_bl"`
	OriginPort      *string `json:"origin_port"`
	DestinationPort *string `json:"destination_port"`
}

func (in shipmentInput) apply(s *models.Shipment) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&s.ContainerNumber, in.ContainerNumber)
	set(&s.VesselName, in.VesselName)
	set(&s.VoyageNumber, in.VoyageNumber)
	set(&s.SteamshipLine, in.SteamshipLine)
	set(&s.RailProvider, in.RailProvider)
	set(&s.MasterBL, in.MasterBL)
	set(&s.HouseBL, in.HouseBL)
	set(&s.OriginPort, in.OriginPort)
	set(&s.DestinationPort, in.DestinationPort)
}

func (s *Server) listShipments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ShipmentFilter{
		BookingNumber:   q.Get("booking_number"),
		ContainerNumber: q.Get("container_number"),
		Status:          q.Get("status"),
	}
	limit, err := queryUint(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter.Limit = int(limit)

	shipments, err := s.repo.ListShipments(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", shipments)
}

// createShipment inserts the shipment and records BOOKING_CONFIRMED on it.
func (s *Server) createShipment(w http.ResponseWriter, r *http.Request) {
	var in shipmentInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.BookingNumber == nil || strings.TrimSpace(*in.BookingNumber) == "" {
		s.fail(w, r, errors.NotValidf("missing booking_number"))
		return
	}

	shipment := &models.Shipment{BookingNumber: strings.TrimSpace(*in.BookingNumber)}
	in.apply(shipment)
	if err := s.repo.CreateShipment(r.Context(), shipment); err != nil {
		s.fail(w, r, err)
		return
	}

	caller := identity(r.Context())
	result, err := s.tracker.RecordMilestone(r.Context(), shipment.ID, tracking.MilestoneUpdate{
		Name:      tracking.BookingConfirmed,
		CreatedBy: caller.Email,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(shipment.ID),
		Action:     audit.ActionCreate,
		EntityType: "shipment",
		EntityID:   ref(shipment.ID),
		New:        result.Shipment,
	})
	s.logger.Info("Shipment created",
		zap.Uint("shipment_id", shipment.ID),
		zap.String("booking_number", shipment.BookingNumber),
		zap.String("created_by", caller.Email))
	ok(w, http.StatusCreated, "Shipment created", result.Shipment)
}

func (s *Server) getShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	shipment, err := s.repo.GetShipmentDetail(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now := s.clock.Now()
	for i := range shipment.Milestones {
		shipment.Milestones[i].Status = tracking.EffectiveStatus(shipment.Milestones[i], now)
	}
	ok(w, http.StatusOK, "", shipment)
}

func (s *Server) updateShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in shipmentInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	var before, after models.Shipment
	err = s.repo.Transaction(r.Context(), func(tx *repositories.Repository) error {
		shipment, err := tx.LockShipment(r.Context(), id)
		if err != nil {
			return err
		}
		before = *shipment
		if in.BookingNumber != nil {
			booking := strings.TrimSpace(*in.BookingNumber)
			if booking == "" {
				return errors.NotValidf("empty booking_number")
			}
			shipment.BookingNumber = booking
		}
		in.apply(shipment)
		if err := tx.SaveShipment(r.Context(), shipment); err != nil {
			return err
		}
		after = *shipment
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionUpdate,
		EntityType: "shipment",
		EntityID:   ref(id),
		Old:        before,
		New:        after,
	})
	ok(w, http.StatusOK, "Shipment updated", after)
}

// deleteShipment removes the shipment with its dependent rows. Audit rows
// referencing it are kept.
func (s *Server) deleteShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	shipment, err := s.repo.GetShipment(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.DeleteShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionDelete,
		EntityType: "shipment",
		EntityID:   ref(id),
		Old:        shipment,
	})
	s.logger.Info("Shipment deleted",
		zap.Uint("shipment_id", id),
		zap.String("booking_number", shipment.BookingNumber))
	ok(w, http.StatusOK, "Shipment deleted", nil)
}
