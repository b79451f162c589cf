package salary

import (
	"sort"
	"time"

	"transport-payroll/internal/domain/trip"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Calculate turns the approved trips of a period into one result per driver.
// Trips are expected in (trip_date, trip_code, id) order; breakdowns keep that order.
// Result IDs are left empty for the caller to assign.
func Calculate(periodID string, trips []trip.Trip, routeNames map[string]string, rule Rule, now time.Time) ([]Result, Summary) {
	rate := rule.RateAmount
	byDriver := make(map[string][]trip.Trip)
	for _, t := range trips {
		byDriver[t.DriverID] = append(byDriver[t.DriverID], t)
	}
	drivers := make([]string, 0, len(byDriver))
	for d := range byDriver {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)

	summary := Summary{
		TotalWeight: decimal.Zero,
		TotalAmount: decimal.Zero,
		RuleUsed:    &RuleRef{ID: rule.ID, Name: rule.Name, RatePerTon: rate},
	}
	results := make([]Result, 0, len(drivers))
	for _, driverID := range drivers {
		ts := byDriver[driverID]
		breakdown := make([]BreakdownEntry, 0, len(ts))
		weight, amount := decimal.Zero, decimal.Zero
		for _, t := range ts {
			w := t.PayableWeight()
			a := w.Mul(rate)
			breakdown = append(breakdown, BreakdownEntry{
				TripID:     t.ID,
				TripCode:   t.TripCode,
				TripDate:   t.TripDate,
				RouteName:  routeNames[t.RouteID],
				Weight:     w,
				RatePerTon: rate,
				Amount:     a,
			})
			weight = weight.Add(w)
			amount = amount.Add(a)
		}
		results = append(results, Result{
			PeriodID:           periodID,
			DriverID:           driverID,
			TotalTrips:         len(ts),
			TotalWeight:        weight,
			BaseSalary:         amount,
			Bonus:              decimal.Zero,
			Penalty:            decimal.Zero,
			TotalSalary:        amount,
			CalculationDetails: datatypes.NewJSONType(breakdown),
			CalculatedAt:       now,
			CalculationVersion: CalculationVersion,
			RuleVersionUsed:    rule.ID,
		})
		summary.TotalTrips += len(ts)
		summary.TotalWeight = summary.TotalWeight.Add(weight)
		summary.TotalAmount = summary.TotalAmount.Add(amount)
	}
	summary.TotalDrivers = len(results)
	return results, summary
}

// Summarize totals already persisted results, as used by exports.
func Summarize(results []Result) Summary {
	s := Summary{TotalDrivers: len(results), TotalWeight: decimal.Zero, TotalAmount: decimal.Zero}
	for _, r := range results {
		s.TotalTrips += r.TotalTrips
		s.TotalWeight = s.TotalWeight.Add(r.TotalWeight)
		s.TotalAmount = s.TotalAmount.Add(r.TotalSalary)
	}
	return s
}
