package trip

import (
	"context"
	"time"
)

// Scope restricts a lookup to trips owned by DriverID when it is non-empty.
type Scope struct {
	DriverID string
}

type Filter struct {
	Status    Status
	DriverID  string
	VehicleID string
	RouteID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, t *Trip) error
	Save(ctx context.Context, t *Trip) error

	// GetByID and GetByIDForUpdate apply id and scope in a single query and
	// return gorm.ErrRecordNotFound for missing, deleted and foreign trips alike.
	GetByID(ctx context.Context, id string, scope Scope) (*Trip, error)
	GetByIDForUpdate(ctx context.Context, id string, scope Scope) (*Trip, error)

	// List returns one page ordered by trip date desc plus the total match count.
	List(ctx context.Context, f Filter) ([]Trip, int64, error)

	// ListApprovedBetween returns APPROVED trips with from <= trip_date <= to
	// ordered by (trip_date, trip_code, id).
	ListApprovedBetween(ctx context.Context, from, to time.Time) ([]Trip, error)

	SoftDelete(ctx context.Context, t *Trip) error

	CreateRecord(ctx context.Context, r *Record) error
	ListRecords(ctx context.Context, tripID string) ([]Record, error)
}
