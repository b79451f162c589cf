package tripmock

import (
	"context"
	"time"

	domain "transport-payroll/internal/domain/trip"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Lookups without a Fn report gorm.ErrRecordNotFound; writes without a Fn succeed.
type Repo struct {
	CreateFn              func(ctx context.Context, t *domain.Trip) error
	SaveFn                func(ctx context.Context, t *domain.Trip) error
	GetByIDFn             func(ctx context.Context, id string, scope domain.Scope) (*domain.Trip, error)
	GetByIDForUpdateFn    func(ctx context.Context, id string, scope domain.Scope) (*domain.Trip, error)
	ListFn                func(ctx context.Context, f domain.Filter) ([]domain.Trip, int64, error)
	ListApprovedBetweenFn func(ctx context.Context, from, to time.Time) ([]domain.Trip, error)
	SoftDeleteFn          func(ctx context.Context, t *domain.Trip) error
	CreateRecordFn        func(ctx context.Context, r *domain.Record) error
	ListRecordsFn         func(ctx context.Context, tripID string) ([]domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Trip) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Trip) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string, scope domain.Scope) (*domain.Trip, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, scope)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string, scope domain.Scope) (*domain.Trip, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id, scope)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Trip, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]domain.Trip, error) {
	if m.ListApprovedBetweenFn != nil {
		return m.ListApprovedBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *Repo) SoftDelete(ctx context.Context, t *domain.Trip) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, t)
	}
	return nil
}

func (m *Repo) CreateRecord(ctx context.Context, r *domain.Record) error {
	if m.CreateRecordFn != nil {
		return m.CreateRecordFn(ctx, r)
	}
	return nil
}

func (m *Repo) ListRecords(ctx context.Context, tripID string) ([]domain.Record, error) {
	if m.ListRecordsFn != nil {
		return m.ListRecordsFn(ctx, tripID)
	}
	return nil, nil
}
