package tracking

import "shipment-tracking-service/models"

const StatusCompleted = "COMPLETED"

var statusMap = map[string]string{
	BookingConfirmed:   "BOOKING_CONFIRMED",
	ContainerLoaded:    "CONTAINER_LOADED",
	VesselDeparted:     "IN_TRANSIT_OCEAN",
	PortOfDischarge:    "ARRIVED_PORT_OF_DISCHARGE",
	RailDeparted:       "IN_TRANSIT_RAIL",
	PortOfEntry:        "ARRIVED_PORT_OF_ENTRY",
	CustomsReleased:    "IN_TRANSIT_TO_DESTINATION",
	DischargeComplete:  "DISCHARGED",
	DocumentsAvailable: "READY_FOR_PICKUP",
	PickupComplete:     "PICKED_UP",
	InvoiceSent:        StatusCompleted,
}

// StatusFor maps a completed milestone to the shipment status it implies.
func (c *Catalog) StatusFor(milestone string) string {
	if milestone == "" {
		return models.StatusBookingCreated
	}
	if milestone == c.Terminal() {
		return StatusCompleted
	}
	if status, ok := statusMap[milestone]; ok {
		return status
	}
	return milestone
}

// DeriveStatus finds the highest-order COMPLETED milestone and returns the
// shipment status it maps to along with its name. Milestones outside the
// catalog are ignored. With nothing completed the status is BOOKING_CREATED
// and the current milestone is empty.
func (c *Catalog) DeriveStatus(milestones []models.Milestone) (status string, current string) {
	best := 0
	for _, m := range milestones {
		if m.Status != models.MilestoneCompleted {
			continue
		}
		order, ok := c.Order(m.Name)
		if !ok || order <= best {
			continue
		}
		best, current = order, m.Name
	}
	return c.StatusFor(current), current
}
