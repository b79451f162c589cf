package mysql

import (
	"context"

	"transport-payroll/internal/domain/reference"

	"gorm.io/gorm"
)

type ReferenceRepository struct{ db *gorm.DB }

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) FindDriver(ctx context.Context, id string) (*reference.Driver, error) {
	var out reference.Driver
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) FindVehicle(ctx context.Context, id string) (*reference.Vehicle, error) {
	var out reference.Vehicle
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) FindRoute(ctx context.Context, id string) (*reference.Route, error) {
	var out reference.Route
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) FindStation(ctx context.Context, id string) (*reference.Station, error) {
	var out reference.Station
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) RouteNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var routes []reference.Route
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, rt := range routes {
		out[rt.ID] = rt.Name
	}
	return out, nil
}

func (r *ReferenceRepository) Drivers(ctx context.Context, ids []string) (map[string]reference.Driver, error) {
	out := make(map[string]reference.Driver, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var drivers []reference.Driver
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&drivers).Error; err != nil {
		return nil, err
	}
	for _, d := range drivers {
		out[d.ID] = d
	}
	return out, nil
}
