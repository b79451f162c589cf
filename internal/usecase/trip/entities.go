package trip

import (
	"time"

	"transport-payroll/internal/domain/audit"
	domainTrip "transport-payroll/internal/domain/trip"

	"github.com/shopspring/decimal"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	auditLimit   = 10
)

type CreateInput struct {
	DriverID       string
	VehicleID      string
	RouteID        string
	OriginID       string
	DestinationID  string
	TripDate       time.Time
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	WeightLoaded   decimal.NullDecimal
	WeightUnloaded decimal.NullDecimal
	WeightFinal    decimal.NullDecimal
	Note           string
}

// UpdateInput is a patch: nil leaves a field alone. For the optional fields a
// non-nil pointer to an unset value clears it. Status is not patchable.
type UpdateInput struct {
	DriverID       *string
	VehicleID      *string
	RouteID        *string
	OriginID       *string
	DestinationID  *string
	TripDate       *time.Time
	DepartureTime  **time.Time
	ArrivalTime    **time.Time
	WeightLoaded   *decimal.NullDecimal
	WeightUnloaded *decimal.NullDecimal
	WeightFinal    *decimal.NullDecimal
	Note           *string
}

type AttachmentInput struct {
	RecordType string
	FileURL    string
	FileName   string
	FileType   string
	TicketNo   string
	Weight     decimal.NullDecimal
	Note       string
}

// Decision is the result of approve/reject. AlreadyApplied carries the trip as it stands.
type Decision struct {
	Outcome domainTrip.Outcome `json:"-"`
	Trip    *domainTrip.Trip   `json:"trip"`
}

type Detail struct {
	Trip      *domainTrip.Trip    `json:"trip"`
	Records   []domainTrip.Record `json:"records"`
	AuditLogs []audit.Entry       `json:"audit_logs,omitempty"`
}

type Page struct {
	Trips  []domainTrip.Trip `json:"trips"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
