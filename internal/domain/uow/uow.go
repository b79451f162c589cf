package uow

import (
	"context"

	"transport-payroll/internal/domain/reference"
	"transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"
)

// Repos are bound to one transaction.
type Repos struct {
	Trips      trip.Repository
	References reference.Repository
	Rules      salary.RuleRepository
	Periods    salary.PeriodRepository
	Results    salary.ResultRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the trip row (scoped to its owner when scope.DriverID is set), then pass it in
	WithinTripTx(ctx context.Context, tripID string, scope trip.Scope, fn func(r Repos, t *trip.Trip) error) error
	// lock the period row, then pass it in
	WithinPeriodTx(ctx context.Context, periodID string, fn func(r Repos, p *salary.Period) error) error
}
