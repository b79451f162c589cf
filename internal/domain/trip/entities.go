package trip

import (
	"fmt"
	"time"

	"transport-payroll/internal/domain/apperr"
	"transport-payroll/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusException is reserved; no transition produces it.
	StatusException Status = "EXCEPTION"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusException:
		return true
	}
	return false
}

var (
	ErrNotFound                = apperr.NotFound("trip not found")
	ErrNotFoundOrDenied        = apperr.NotFound("trip not found or access denied")
	ErrInvalidTransition       = apperr.Forbidden("invalid status transition")
	ErrEditApproved            = apperr.Forbidden("cannot edit approved trips")
	ErrDeleteApproved          = apperr.Forbidden("cannot delete approved trips")
	ErrAttachApproved          = apperr.Forbidden("cannot add attachments to approved trips")
	ErrRejectionReasonRequired = apperr.BadRequest("rejection reason is required")
	ErrNegativeWeight          = apperr.BadRequest("weights must be non-negative")
	ErrTripDateRequired        = apperr.BadRequest("trip date is required")
	ErrInvalidRecordType       = apperr.BadRequest("invalid record type")
	ErrFileURLRequired         = apperr.BadRequest("file url is required")
)

// Table: trips
type Trip struct {
	ID              string              `gorm:"primaryKey;type:char(32)" json:"id"`
	TripCode        string              `gorm:"type:varchar(24);uniqueIndex;not null" json:"trip_code"`
	DriverID        string              `gorm:"type:char(32);not null;index:idx_trips_driver_date,priority:1" json:"driver_id"`
	VehicleID       string              `gorm:"type:char(32);not null" json:"vehicle_id"`
	RouteID         string              `gorm:"type:char(32);not null" json:"route_id"`
	OriginID        string              `gorm:"type:char(32);not null" json:"origin_id"`
	DestinationID   string              `gorm:"type:char(32);not null" json:"destination_id"`
	TripDate        time.Time           `gorm:"type:date;not null;index:idx_trips_driver_date,priority:2;index:idx_trips_status_date,priority:2" json:"trip_date"`
	DepartureTime   *time.Time          `json:"departure_time,omitempty"`
	ArrivalTime     *time.Time          `json:"arrival_time,omitempty"`
	WeightLoaded    decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"weight_loaded"`
	WeightUnloaded  decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"weight_unloaded"`
	WeightFinal     decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"weight_final"`
	Status          Status              `gorm:"type:varchar(16);not null;index:idx_trips_status_date,priority:1" json:"status"`
	RejectionReason string              `gorm:"type:text" json:"rejection_reason,omitempty"`
	Note            string              `gorm:"type:text" json:"note,omitempty"`
	CreatedByID     string              `gorm:"type:varchar(64)" json:"created_by_id,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (Trip) TableName() string { return "trips" }

// NewCode builds a trip code like TR241205-7QZ2 for the given day.
func NewCode(now time.Time) string {
	return fmt.Sprintf("TR%s-%s", now.Format("060102"), id.RandomCode(4))
}

// Deletion is the soft-delete state of a trip.
type Deletion struct {
	Deleted bool
	At      time.Time
}

func (t Trip) Deletion() Deletion {
	if t.DeletedAt.Valid {
		return Deletion{Deleted: true, At: t.DeletedAt.Time}
	}
	return Deletion{}
}

// PayableWeight is the weight the salary engine pays for: final, else loaded, else zero.
func (t Trip) PayableWeight() decimal.Decimal {
	if t.WeightFinal.Valid {
		return t.WeightFinal.Decimal
	}
	if t.WeightLoaded.Valid {
		return t.WeightLoaded.Decimal
	}
	return decimal.Zero
}

// ValidateWeights rejects negative weights; unset weights are fine.
func ValidateWeights(ws ...decimal.NullDecimal) error {
	for _, w := range ws {
		if w.Valid && w.Decimal.IsNegative() {
			return ErrNegativeWeight
		}
	}
	return nil
}
