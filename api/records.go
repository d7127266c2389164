package api

import (
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/models"
	"strings"
	"time"
)

type documentInput struct {
	Type         models.DocumentType `json:"document_type"`
	Name         string              `json:"document_name"`
	FilePath     string              `json:"file_path"`
	FileSize     int64               `json:"file_size"`
	MimeType     string              `json:"mime_type"`
	ShipperID    *uint               `json:"shipper_id"`
	POID         *uint               `json:"po_id"`
	UploadSource models.UploadSource `json:"upload_source"`
}

// uploadSource maps the caller's role to where a document came from.
func uploadSource(role models.Role) models.UploadSource {
	switch role {
	case models.RoleSeairOrigin:
		return models.UploadSeairOrigin
	case models.RoleSeairUS:
		return models.UploadSeairUS
	}
	return models.UploadShipper
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	docs, err := s.repo.ListDocuments(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", docs)
}

// createDocument stores metadata for a file already held by document storage.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in documentInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Type = models.DocumentType(strings.ToUpper(string(in.Type)))
	switch {
	case !in.Type.Valid():
		s.fail(w, r, errors.NotValidf("document_type %q", in.Type))
		return
	case strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.FilePath) == "":
		s.fail(w, r, errors.NotValidf("missing document_name or file_path"))
		return
	case in.UploadSource != "" && !in.UploadSource.Valid():
		s.fail(w, r, errors.NotValidf("upload_source %q", in.UploadSource))
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	caller := identity(r.Context())
	doc := &models.Document{
		ShipmentID:   id,
		ShipperID:    in.ShipperID,
		POID:         in.POID,
		Type:         in.Type,
		Name:         strings.TrimSpace(in.Name),
		FilePath:     strings.TrimSpace(in.FilePath),
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
		UploadedBy:   caller.Email,
		UploadSource: in.UploadSource,
	}
	if doc.UploadSource == "" {
		doc.UploadSource = uploadSource(caller.Role)
	}
	if err := s.repo.CreateDocument(r.Context(), doc); err != nil {
		s.fail(w, r, err)
		return
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionCreate,
		EntityType: "document",
		EntityID:   ref(doc.ID),
		New:        doc,
	})
	ok(w, http.StatusCreated, "Document recorded", doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.repo.GetDocument(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.DeleteDocument(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: ref(doc.ShipmentID),
		Action:     audit.ActionDelete,
		EntityType: "document",
		EntityID:   ref(id),
		Old:        doc,
	})
	ok(w, http.StatusOK, "Document deleted", nil)
}

type purchaseOrderInput struct {
	ShipperID       uint                `json:"shipper_id"`
	PONumber        string              `json:"po_number"`
	VendorReference string              `json:"vendor_reference"`
	TotalAmount     decimal.NullDecimal `json:"total_amount"`
	Currency        string              `json:"currency"`
}

func (s *Server) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	pos, err := s.repo.ListPurchaseOrders(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", pos)
}

func (s *Server) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in purchaseOrderInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.ShipperID == 0 || strings.TrimSpace(in.PONumber) == "" {
		s.fail(w, r, errors.NotValidf("missing shipper_id or po_number"))
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.GetShipper(r.Context(), in.ShipperID); err != nil {
		s.fail(w, r, err)
		return
	}

	po := &models.PurchaseOrder{
		ShipmentID:      id,
		ShipperID:       in.ShipperID,
		PONumber:        strings.TrimSpace(in.PONumber),
		VendorReference: in.VendorReference,
		TotalAmount:     in.TotalAmount,
		Currency:        strings.ToUpper(in.Currency),
	}
	if po.Currency == "" {
		po.Currency = "USD"
	}
	if err := s.repo.CreatePurchaseOrder(r.Context(), po); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionCreate,
		EntityType: "purchase_order",
		EntityID:   ref(po.ID),
		New:        po,
	})
	ok(w, http.StatusCreated, "Purchase order created", po)
}

func (s *Server) deletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	po, err := s.repo.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.DeletePurchaseOrder(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: ref(po.ShipmentID),
		Action:     audit.ActionDelete,
		EntityType: "purchase_order",
		EntityID:   ref(id),
		Old:        po,
	})
	ok(w, http.StatusOK, "Purchase order deleted", nil)
}

func (s *Server) listShippers(w http.ResponseWriter, r *http.Request) {
	shippers, err := s.repo.ListShippers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", shippers)
}

func (s *Server) createShipper(w http.ResponseWriter, r *http.Request) {
	var shipper models.Shipper
	if err := decode(r, &shipper); err != nil {
		s.fail(w, r, err)
		return
	}
	shipper.ID = 0
	shipper.Name = strings.TrimSpace(shipper.Name)
	shipper.Code = strings.ToUpper(strings.TrimSpace(shipper.Code))
	if shipper.Name == "" || shipper.Code == "" {
		s.fail(w, r, errors.NotValidf("missing shipper_name or shipper_code"))
		return
	}
	if err := s.repo.CreateShipper(r.Context(), &shipper); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "shipper",
		EntityID:   ref(shipper.ID),
		New:        shipper,
	})
	ok(w, http.StatusCreated, "Shipper created", shipper)
}

type invoiceInput struct {
	ShipmentID       uint               `json:"shipment_id"`
	InvoiceNumber    string             `json:"invoice_number"`
	InvoiceDate      *time.Time         `json:"invoice_date"`
	InvoiceType      models.InvoiceType `json:"invoice_type"`
	FreightCharges   decimal.Decimal    `json:"freight_charges"`
	CustomsClearance decimal.Decimal    `json:"customs_clearance"`
	DocumentationFee decimal.Decimal    `json:"documentation_fee"`
	HandlingCharges  decimal.Decimal    `json:"handling_charges"`
	RailCharges      decimal.Decimal    `json:"rail_charges"`
	OtherCharges     decimal.Decimal    `json:"other_charges"`
	TotalAmount      *decimal.Decimal   `json:"total_amount"`
	Currency         string             `json:"currency"`
	DueDate          *time.Time         `json:"due_date"`
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	invoices, err := s.repo.ListInvoices(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", invoices)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var in invoiceInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.ShipmentID == 0 || strings.TrimSpace(in.InvoiceNumber) == "" || in.TotalAmount == nil {
		s.fail(w, r, errors.NotValidf("missing shipment_id, invoice_number or total_amount"))
		return
	}
	if in.InvoiceType == "" {
		in.InvoiceType = models.InvoiceFinal
	}
	if !in.InvoiceType.Valid() {
		s.fail(w, r, errors.NotValidf("invoice_type %q", in.InvoiceType))
		return
	}
	if in.TotalAmount.IsNegative() {
		s.fail(w, r, errors.NotValidf("negative total_amount"))
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), in.ShipmentID); err != nil {
		s.fail(w, r, err)
		return
	}

	invoice := &models.Invoice{
		ShipmentID:       in.ShipmentID,
		InvoiceNumber:    strings.TrimSpace(in.InvoiceNumber),
		InvoiceDate:      in.InvoiceDate,
		InvoiceType:      in.InvoiceType,
		FreightCharges:   in.FreightCharges,
		CustomsClearance: in.CustomsClearance,
		DocumentationFee: in.DocumentationFee,
		HandlingCharges:  in.HandlingCharges,
		RailCharges:      in.RailCharges,
		OtherCharges:     in.OtherCharges,
		TotalAmount:      *in.TotalAmount,
		Currency:         strings.ToUpper(in.Currency),
		PaymentStatus:    models.PaymentPending,
		DueDate:          in.DueDate,
	}
	if invoice.Currency == "" {
		invoice.Currency = "USD"
	}
	if err := s.repo.CreateInvoice(r.Context(), invoice); err != nil {
		s.fail(w, r, err)
		return
	}
	if charges := invoice.ChargesTotal(); !charges.IsZero() && !charges.Equal(invoice.TotalAmount) {
		s.logger.Warn("Invoice charges do not add up to the total",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("charges", charges.StringFixed(2)),
			zap.String("total_amount", invoice.TotalAmount.StringFixed(2)))
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(invoice.ShipmentID),
		Action:     audit.ActionCreate,
		EntityType: "invoice",
		EntityID:   ref(invoice.ID),
		New:        invoice,
	})
	ok(w, http.StatusCreated, "Invoice created", invoice)
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
	}
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.PaymentStatus = models.PaymentStatus(strings.ToUpper(string(in.PaymentStatus)))
	if !in.PaymentStatus.Valid() {
		s.fail(w, r, errors.NotValidf("payment_status %q", in.PaymentStatus))
		return
	}

	before, err := s.repo.GetInvoice(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.UpdatePaymentStatus(r.Context(), id, in.PaymentStatus, s.clock.Now()); err != nil {
		s.fail(w, r, err)
		return
	}
	after, err := s.repo.GetInvoice(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: ref(after.ShipmentID),
		Action:     audit.ActionUpdate,
		EntityType: "invoice",
		EntityID:   ref(id),
		Old:        before,
		New:        after,
	})
	ok(w, http.StatusOK, "Payment status updated", after)
}

type exceptionInput struct {
	Type        string                 `json:"exception_type"`
	Severity    models.Severity        `json:"severity"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      models.ExceptionStatus `json:"status"`
	AssignedTo  *string                `json:"assigned_to"`
	Resolution  *string                `json:"resolution"`
}

func (s *Server) listExceptions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	es, err := s.repo.ListExceptions(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", es)
}

// createException raises an exception and enqueues its alert. A failed
// alert is logged; the exception stays recorded.
func (s *Server) createException(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in exceptionInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Severity = models.Severity(strings.ToUpper(string(in.Severity)))
	switch {
	case strings.TrimSpace(in.Title) == "":
		s.fail(w, r, errors.NotValidf("missing title"))
		return
	case in.Severity != "" && !in.Severity.Valid():
		s.fail(w, r, errors.NotValidf("severity %q", in.Severity))
		return
	}
	if _, err := s.repo.GetShipment(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	e := &models.Exception{
		ShipmentID:  id,
		Type:        in.Type,
		Severity:    in.Severity,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ReportedBy:  identity(r.Context()).Email,
	}
	if in.AssignedTo != nil {
		e.AssignedTo = *in.AssignedTo
	}
	if err := s.repo.CreateException(r.Context(), e); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.composer.ExceptionAlert(r.Context(), e); err != nil {
		s.logger.Error("Failed to enqueue exception alert",
			zap.Uint("exception_id", e.ID),
			zap.Error(err))
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(id),
		Action:     audit.ActionCreate,
		EntityType: "exception",
		EntityID:   ref(e.ID),
		New:        e,
	})
	ok(w, http.StatusCreated, "Exception reported", e)
}

// updateException changes status, assignee or resolution. Moving to
// RESOLVED stamps resolved_at once.
func (s *Server) updateException(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in exceptionInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Status = models.ExceptionStatus(strings.ToUpper(string(in.Status)))
	if in.Status != "" && !in.Status.Valid() {
		s.fail(w, r, errors.NotValidf("status %q", in.Status))
		return
	}

	e, err := s.repo.GetException(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	before := *e
	if in.Status != "" {
		e.Status = in.Status
	}
	if in.AssignedTo != nil {
		e.AssignedTo = *in.AssignedTo
	}
	if in.Resolution != nil {
		e.Resolution = *in.Resolution
	}
	if e.Status == models.ExceptionResolved && e.ResolvedAt == nil {
		now := s.clock.Now().UTC()
		e.ResolvedAt = &now
	}
	if err := s.repo.SaveException(r.Context(), e); err != nil {
		s.fail(w, r, err)
		return
	}

	s.audit(r, audit.Entry{
		ShipmentID: ref(e.ShipmentID),
		Action:     audit.ActionUpdate,
		EntityType: "exception",
		EntityID:   ref(id),
		Old:        before,
		New:        e,
	})
	ok(w, http.StatusOK, "Exception updated", e)
}
