package models

// Enumerated string values. They are not enforced by the database; callers
// validate them at the edges with the Valid methods.

type DocumentType string

const (
	DocumentPO           DocumentType = "PO"
	DocumentInvoice      DocumentType = "INVOICE"
	DocumentPackingList  DocumentType = "PACKING_LIST"
	DocumentCBP7501      DocumentType = "CBP_7501"
	DocumentEntrySummary DocumentType = "ENTRY_SUMMARY"
	DocumentCommercial   DocumentType = "COMMERCIAL"
	DocumentSeairInvoice DocumentType = "SEAIR_INVOICE"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentPO, DocumentInvoice, DocumentPackingList, DocumentCBP7501,
		DocumentEntrySummary, DocumentCommercial, DocumentSeairInvoice:
		return true
	}
	return false
}

type UploadSource string

const (
	UploadShipper     UploadSource = "SHIPPER"
	UploadSeairOrigin UploadSource = "SEAIR_ORIGIN"
	UploadSeairUS     UploadSource = "SEAIR_US"
)

func (s UploadSource) Valid() bool {
	switch s {
	case UploadShipper, UploadSeairOrigin, UploadSeairUS:
		return true
	}
	return false
}

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "PENDING"
	MilestoneCompleted MilestoneStatus = "COMPLETED"
	MilestoneDelayed   MilestoneStatus = "DELAYED"
)

type InvoiceType string

const (
	InvoiceSeairOrigin InvoiceType = "SEAIR_ORIGIN"
	InvoiceSeairUS     InvoiceType = "SEAIR_US"
	InvoiceFinal       InvoiceType = "FINAL"
)

func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceSeairOrigin, InvoiceSeairUS, InvoiceFinal:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

type Role string

const (
	RoleVHCViewer   Role = "VHC_VIEWER"
	RoleSeairOrigin Role = "SEAIR_ORIGIN"
	RoleSeairUS     Role = "SEAIR_US"
	RoleAdmin       Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVHCViewer, RoleSeairOrigin, RoleSeairUS, RoleAdmin:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Escalates reports whether alerts of this severity go to the escalation list.
func (s Severity) Escalates() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type ExceptionStatus string

const (
	ExceptionOpen       ExceptionStatus = "OPEN"
	ExceptionInProgress ExceptionStatus = "IN_PROGRESS"
	ExceptionResolved   ExceptionStatus = "RESOLVED"
)

func (s ExceptionStatus) Valid() bool {
	switch s {
	case ExceptionOpen, ExceptionInProgress, ExceptionResolved:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationPending, NotificationSent, NotificationFailed:
		return true
	}
	return false
}

const (
	NotificationMilestoneUpdate  = "MILESTONE_UPDATE"
	NotificationMilestoneDelayed = "MILESTONE_DELAYED"
	NotificationExceptionAlert   = "EXCEPTION_ALERT"
	NotificationDailySummary     = "DAILY_SUMMARY"
)

// StatusBookingCreated is the shipments.current_status column default.
const StatusBookingCreated = "BOOKING_CREATED"
