package salary

import (
	"fmt"
	"time"
)

type PeriodStatus string

const (
	PeriodOpen        PeriodStatus = "OPEN"
	PeriodCalculating PeriodStatus = "CALCULATING"
	PeriodLocked      PeriodStatus = "LOCKED"
)

// Table: salary_periods
type Period struct {
	ID          string       `gorm:"primaryKey;type:char(32)" json:"id"`
	Code        string       `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`
	Name        string       `gorm:"type:varchar(128)" json:"name"`
	PeriodStart time.Time    `gorm:"type:date;not null;index" json:"period_start"`
	PeriodEnd   time.Time    `gorm:"type:date;not null" json:"period_end"`
	Status      PeriodStatus `gorm:"type:varchar(16);not null" json:"status"`
	LockedAt    *time.Time   `json:"locked_at,omitempty"`
	LockedByID  *string      `gorm:"type:varchar(64)" json:"locked_by_id,omitempty"`
	CreatedByID string       `gorm:"type:varchar(64)" json:"created_by_id,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	ResultCount int64 `gorm:"-" json:"result_count"`
}

func (Period) TableName() string { return "salary_periods" }

// PeriodCode derives YYYY-MM-P1 (start day <= 15) or YYYY-MM-P2.
func PeriodCode(start time.Time) string {
	half := "P1"
	if start.Day() > 15 {
		half = "P2"
	}
	return fmt.Sprintf("%04d-%02d-%s", start.Year(), int(start.Month()), half)
}

// NewPeriod builds an OPEN period; end must be strictly after start.
func NewPeriod(name string, start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, ErrPeriodDatesRequired
	}
	if !end.After(start) {
		return Period{}, ErrInvalidPeriodRange
	}
	code := PeriodCode(start)
	if name == "" {
		name = code
	}
	return Period{
		Code:        code,
		Name:        name,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      PeriodOpen,
	}, nil
}

func (p *Period) BeginCalculation() error {
	if p.Status == PeriodLocked {
		return ErrPeriodLocked
	}
	p.Status = PeriodCalculating
	return nil
}

func (p *Period) FinishCalculation() {
	p.Status = PeriodOpen
}

// Lock closes the period for good. It refuses while a calculation is in flight
// and when there is nothing to pay out.
func (p *Period) Lock(actorID string, now time.Time, resultCount int64) error {
	switch p.Status {
	case PeriodLocked:
		return ErrPeriodAlreadyClosed
	case PeriodCalculating:
		return ErrPeriodCalculating
	}
	if resultCount == 0 {
		return ErrNoResults
	}
	p.Status = PeriodLocked
	at := now
	p.LockedAt = &at
	if actorID != "" {
		by := actorID
		p.LockedByID = &by
	}
	return nil
}
