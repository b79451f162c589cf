package mysql

import (
	"context"
	"time"

	tripDomain "transport-payroll/internal/domain/trip"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository struct{ db *gorm.DB }

func NewTripRepository(db *gorm.DB) *TripRepository { return &TripRepository{db: db} }

func (r *TripRepository) Create(ctx context.Context, t *tripDomain.Trip) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TripRepository) Save(ctx context.Context, t *tripDomain.Trip) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// scoped narrows to one trip and, for drivers, to their own trips in the same query.
func (r *TripRepository) scoped(ctx context.Context, id string, scope tripDomain.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if scope.DriverID != "" {
		q = q.Where("driver_id = ?", scope.DriverID)
	}
	return q
}

func (r *TripRepository) GetByID(ctx context.Context, id string, scope tripDomain.Scope) (*tripDomain.Trip, error) {
	var out tripDomain.Trip
	res := r.scoped(ctx, id, scope).First(&out)
	return &out, res.Error
}

func (r *TripRepository) GetByIDForUpdate(ctx context.Context, id string, scope tripDomain.Scope) (*tripDomain.Trip, error) {
	var out tripDomain.Trip
	res := r.scoped(ctx, id, scope).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out)
	return &out, res.Error
}

func applyTripFilter(q *gorm.DB, f tripDomain.Filter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DriverID != "" {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	if f.VehicleID != "" {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if f.RouteID != "" {
		q = q.Where("route_id = ?", f.RouteID)
	}
	if f.DateFrom != nil {
		q = q.Where("trip_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("trip_date <= ?", *f.DateTo)
	}
	return q
}

func (r *TripRepository) List(ctx context.Context, f tripDomain.Filter) ([]tripDomain.Trip, int64, error) {
	var total int64
	if err := applyTripFilter(r.db.WithContext(ctx).Model(&tripDomain.Trip{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []tripDomain.Trip
	q := applyTripFilter(r.db.WithContext(ctx), f).
		Order("trip_date DESC, created_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *TripRepository) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]tripDomain.Trip, error) {
	var out []tripDomain.Trip
	err := r.db.WithContext(ctx).
		Where("status = ? AND trip_date >= ? AND trip_date <= ?", tripDomain.StatusApproved, from, to).
		Order("trip_date ASC, trip_code ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *TripRepository) SoftDelete(ctx context.Context, t *tripDomain.Trip) error {
	return r.db.WithContext(ctx).Delete(t).Error
}

func (r *TripRepository) CreateRecord(ctx context.Context, rec *tripDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *TripRepository) ListRecords(ctx context.Context, tripID string) ([]tripDomain.Record, error) {
	var out []tripDomain.Record
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
