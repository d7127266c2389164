package tracking

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"shipment-tracking-service/models"
)

func TestDefaultCatalogOrder(t *testing.T) {
	c := qt.New(t)

	want := []string{
		"BOOKING_CONFIRMED", "CONTAINER_LOADED", "VESSEL_DEPARTED", "PORT_OF_DISCHARGE",
		"RAIL_DEPARTED", "PORT_OF_ENTRY", "CUSTOMS_RELEASED", "DISCHARGE_COMPLETE",
		"DOCUMENTS_AVAILABLE", "PICKUP_COMPLETE", "INVOICE_SENT",
	}
	types := DefaultCatalog.Types()
	c.Assert(types, qt.HasLen, len(want))
	for i, name := range want {
		c.Assert(types[i].Name, qt.Equals, name)
		order, ok := DefaultCatalog.Order(name)
		c.Assert(ok, qt.IsTrue)
		c.Assert(order, qt.Equals, i+1)
	}

	_, ok := DefaultCatalog.Order("TELEPORTED")
	c.Assert(ok, qt.IsFalse)
	c.Assert(DefaultCatalog.Terminal(), qt.Equals, InvoiceSent)
}

func TestCatalogNext(t *testing.T) {
	c := qt.New(t)

	next, ok := DefaultCatalog.Next("")
	c.Assert(ok, qt.IsTrue)
	c.Assert(next, qt.Equals, BookingConfirmed)

	next, ok = DefaultCatalog.Next(CustomsReleased)
	c.Assert(ok, qt.IsTrue)
	c.Assert(next, qt.Equals, DischargeComplete)

	_, ok = DefaultCatalog.Next(InvoiceSent)
	c.Assert(ok, qt.IsFalse)
}

func TestNewCatalogSortsByOrder(t *testing.T) {
	c := qt.New(t)

	catalog := NewCatalog([]models.MilestoneType{
		{Name: "B", Order: 2},
		{Name: "C", Order: 3},
		{Name: "A", Order: 1},
	})
	types := catalog.Types()
	c.Assert(types[0].Name, qt.Equals, "A")
	c.Assert(types[2].Name, qt.Equals, "C")
	c.Assert(catalog.Terminal(), qt.Equals, "C")
	c.Assert(catalog.StatusFor("C"), qt.Equals, StatusCompleted)
	c.Assert(catalog.StatusFor("B"), qt.Equals, "B")
}
