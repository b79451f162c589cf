package salary

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const CalculationVersion = 1

// BreakdownEntry is one paid trip inside a driver's result.
type BreakdownEntry struct {
	TripID     string          `json:"trip_id"`
	TripCode   string          `json:"trip_code"`
	TripDate   time.Time       `json:"trip_date"`
	RouteName  string          `json:"route_name"`
	Weight     decimal.Decimal `json:"weight"`
	RatePerTon decimal.Decimal `json:"rate_per_ton"`
	Amount     decimal.Decimal `json:"amount"`
}

// Table: salary_results
type Result struct {
	ID                 string                               `gorm:"primaryKey;type:char(32)" json:"id"`
	PeriodID           string                               `gorm:"type:char(32);not null;uniqueIndex:ux_results_period_driver,priority:1" json:"period_id"`
	DriverID           string                               `gorm:"type:char(32);not null;uniqueIndex:ux_results_period_driver,priority:2" json:"driver_id"`
	TotalTrips         int                                  `gorm:"not null" json:"total_trips"`
	TotalWeight        decimal.Decimal                      `gorm:"type:decimal(14,3);not null" json:"total_weight"`
	BaseSalary         decimal.Decimal                      `gorm:"type:decimal(16,2);not null" json:"base_salary"`
	Bonus              decimal.Decimal                      `gorm:"type:decimal(16,2);not null" json:"bonus"`
	Penalty            decimal.Decimal                      `gorm:"type:decimal(16,2);not null" json:"penalty"`
	TotalSalary        decimal.Decimal                      `gorm:"type:decimal(16,2);not null;index" json:"total_salary"`
	CalculationDetails datatypes.JSONType[[]BreakdownEntry] `json:"calculation_details"`
	CalculatedAt       time.Time                            `json:"calculated_at"`
	CalculationVersion int                                  `gorm:"not null" json:"calculation_version"`
	RuleVersionUsed    string                               `gorm:"type:char(32)" json:"rule_version_used"`
	CreatedAt          time.Time                            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Result) TableName() string { return "salary_results" }

func (r Result) Breakdown() []BreakdownEntry { return r.CalculationDetails.Data() }

// RuleRef identifies the rule a calculation used.
type RuleRef struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	RatePerTon decimal.Decimal `json:"rate_per_ton"`
}

type Summary struct {
	TotalDrivers int             `json:"total_drivers"`
	TotalTrips   int             `json:"total_trips"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	RuleUsed     *RuleRef        `json:"rule_used,omitempty"`
}
