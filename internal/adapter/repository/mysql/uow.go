package mysql

import (
	"context"

	"transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"
	"transport-payroll/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, outside of any transaction.
func NewRepos(db *gorm.DB) uow.Repos { return repos(db) }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Trips:      &TripRepository{db: tx},
		References: &ReferenceRepository{db: tx},
		Rules:      &RuleRepository{db: tx},
		Periods:    &PeriodRepository{db: tx},
		Results:    &ResultRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinTripTx(ctx context.Context, tripID string, scope trip.Scope, fn func(r uow.Repos, t *trip.Trip) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the trip row up-front so status checks and writes see the same state
		t, err := r.Trips.GetByIDForUpdate(ctx, tripID, scope)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}

func (u *GormUoW) WithinPeriodTx(ctx context.Context, periodID string, fn func(r uow.Repos, p *salary.Period) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		p, err := r.Periods.GetByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
