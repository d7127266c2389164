package tracking

import (
	"context"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"sort"
)

const (
	BookingConfirmed   = "BOOKING_CONFIRMED"
	ContainerLoaded    = "CONTAINER_LOADED"
	VesselDeparted     = "VESSEL_DEPARTED"
	PortOfDischarge    = "PORT_OF_DISCHARGE"
	RailDeparted       = "RAIL_DEPARTED"
	PortOfEntry        = "PORT_OF_ENTRY"
	CustomsReleased    = "CUSTOMS_RELEASED"
	DischargeComplete  = "DISCHARGE_COMPLETE"
	DocumentsAvailable = "DOCUMENTS_AVAILABLE"
	PickupComplete     = "PICKUP_COMPLETE"
	InvoiceSent        = "INVOICE_SENT"
)

// Catalog is the ordered list of milestone types. Order indexes start at 1.
type Catalog struct {
	types  []models.MilestoneType
	byName map[string]models.MilestoneType
}

// DefaultCatalog is the catalog seeded into milestone_types.
var DefaultCatalog = NewCatalog([]models.MilestoneType{
	{Name: BookingConfirmed, Order: 1, Description: "Booking confirmed with the steamship line"},
	{Name: ContainerLoaded, Order: 2, Description: "Container loaded at origin"},
	{Name: VesselDeparted, Order: 3, Description: "Vessel departed port of loading"},
	{Name: PortOfDischarge, Order: 4, Description: "Arrived at port of discharge"},
	{Name: RailDeparted, Order: 5, Description: "Rail departed port of discharge"},
	{Name: PortOfEntry, Order: 6, Description: "Arrived at port of entry"},
	{Name: CustomsReleased, Order: 7, Description: "Released by customs"},
	{Name: DischargeComplete, Order: 8, Description: "Container discharged at destination"},
	{Name: DocumentsAvailable, Order: 9, Description: "Clearance documents available"},
	{Name: PickupComplete, Order: 10, Description: "Container picked up"},
	{Name: InvoiceSent, Order: 11, Description: "Final invoice sent"},
})

func NewCatalog(types []models.MilestoneType) *Catalog {
	sorted := make([]models.MilestoneType, len(types))
	copy(sorted, types)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	byName := make(map[string]models.MilestoneType, len(sorted))
	for _, t := range sorted {
		byName[t.Name] = t
	}
	return &Catalog{types: sorted, byName: byName}
}

// LoadCatalog reads milestone_types, falling back to DefaultCatalog when the
// table is empty.
func LoadCatalog(ctx context.Context, repo *repositories.Repository) (*Catalog, error) {
	types, err := repo.ListMilestoneTypes(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return DefaultCatalog, nil
	}
	return NewCatalog(types), nil
}

// Order returns the order index of name.
func (c *Catalog) Order(name string) (int, bool) {
	t, ok := c.byName[name]
	return t.Order, ok
}

func (c *Catalog) Lookup(name string) (models.MilestoneType, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Types returns the catalog in order.
func (c *Catalog) Types() []models.MilestoneType {
	out := make([]models.MilestoneType, len(c.types))
	copy(out, c.types)
	return out
}

// Terminal is the last milestone of the catalog.
func (c *Catalog) Terminal() string {
	if len(c.types) == 0 {
		return ""
	}
	return c.types[len(c.types)-1].Name
}

// Next returns the milestone expected after current. An empty current means
// nothing has completed yet. It reports false past the terminal milestone.
func (c *Catalog) Next(current string) (string, bool) {
	order, _ := c.Order(current)
	for _, t := range c.types {
		if t.Order > order {
			return t.Name, true
		}
	}
	return "", false
}
