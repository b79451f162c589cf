package salary

import (
	"time"

	domain "transport-payroll/internal/domain/salary"

	"github.com/shopspring/decimal"
)

const (
	defaultPeriodLimit = 50
	maxPeriodLimit     = 200
)

type CreatePeriodInput struct {
	Name        string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type CreateRuleInput struct {
	Name          string
	Description   string
	RatePerTon    decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	RouteID       *string
	Config        map[string]any
}

// ResultView is a salary result with the driver's display fields attached.
type ResultView struct {
	domain.Result
	DriverName   string `json:"driver_name"`
	EmployeeCode string `json:"employee_code"`
}

type RecalcSummary struct {
	Period *domain.Period `json:"period"`
	domain.Summary
}

type PeriodDetail struct {
	Period  *domain.Period `json:"period"`
	Results []ResultView   `json:"results"`
}

// Export is everything an external export job needs for one period.
type Export struct {
	Period  *domain.Period `json:"period"`
	Results []ResultView   `json:"results"`
	Summary domain.Summary `json:"summary"`
}
