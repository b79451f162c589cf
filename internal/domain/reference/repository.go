package reference

import "context"

// Repository is the read-only Reference Store. Soft-deleted rows are never returned;
// a miss is reported as gorm.ErrRecordNotFound.
type Repository interface {
	FindDriver(ctx context.Context, id string) (*Driver, error)
	FindVehicle(ctx context.Context, id string) (*Vehicle, error)
	FindRoute(ctx context.Context, id string) (*Route, error)
	FindStation(ctx context.Context, id string) (*Station, error)

	// RouteNames maps route id -> name for the given ids; unknown ids are absent.
	RouteNames(ctx context.Context, ids []string) (map[string]string, error)
	// Drivers returns the drivers with the given ids keyed by id.
	Drivers(ctx context.Context, ids []string) (map[string]Driver, error)
}
