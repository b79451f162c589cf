package uowmock

import (
	"context"
	"errors"

	"transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"
	"transport-payroll/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinTripTxFn   func(ctx context.Context, tripID string, scope trip.Scope, fn func(r uow.Repos, t *trip.Trip) error) error
	WithinPeriodTxFn func(ctx context.Context, periodID string, fn func(r uow.Repos, p *salary.Period) error) error
}

// Passthrough runs every callback directly against repos, loading the locked
// row through the repos the way the real unit of work does. Nothing is rolled back.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinTripTxFn: func(ctx context.Context, tripID string, scope trip.Scope, fn func(uow.Repos, *trip.Trip) error) error {
			t, err := repos.Trips.GetByIDForUpdate(ctx, tripID, scope)
			if err != nil {
				return err
			}
			return fn(repos, t)
		},
		WithinPeriodTxFn: func(ctx context.Context, periodID string, fn func(uow.Repos, *salary.Period) error) error {
			p, err := repos.Periods.GetByIDForUpdate(ctx, periodID)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTripTx(ctx context.Context, tripID string, scope trip.Scope, fn func(r uow.Repos, t *trip.Trip) error) error {
	if m.WithinTripTxFn != nil {
		return m.WithinTripTxFn(ctx, tripID, scope, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinPeriodTx(ctx context.Context, periodID string, fn func(r uow.Repos, p *salary.Period) error) error {
	if m.WithinPeriodTxFn != nil {
		return m.WithinPeriodTxFn(ctx, periodID, fn)
	}
	return errUnimplemented
}
