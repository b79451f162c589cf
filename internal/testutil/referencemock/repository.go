package referencemock

import (
	"context"

	domain "transport-payroll/internal/domain/reference"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Store)(nil)

// Store is an in-memory reference store keyed by id. Missing ids report
// gorm.ErrRecordNotFound like the real repository.
type Store struct {
	DriverByID  map[string]domain.Driver
	VehicleByID map[string]domain.Vehicle
	RouteByID   map[string]domain.Route
	StationByID map[string]domain.Station
	ErrLookup   error
}

func New() *Store {
	return &Store{
		DriverByID:  map[string]domain.Driver{},
		VehicleByID: map[string]domain.Vehicle{},
		RouteByID:   map[string]domain.Route{},
		StationByID: map[string]domain.Station{},
	}
}

func (s *Store) AddDriver(id, name string) *Store {
	s.DriverByID[id] = domain.Driver{ID: id, EmployeeCode: "EMP-" + id, Name: name}
	return s
}

func (s *Store) AddVehicle(id string) *Store {
	s.VehicleByID[id] = domain.Vehicle{ID: id, PlateNo: "PLATE-" + id}
	return s
}

func (s *Store) AddStation(id, name string) *Store {
	s.StationByID[id] = domain.Station{ID: id, Code: "ST-" + id, Name: name}
	return s
}

func (s *Store) AddRoute(id, name, origin, dest string) *Store {
	s.RouteByID[id] = domain.Route{ID: id, Code: "RT-" + id, Name: name, OriginID: origin, DestinationID: dest}
	return s
}

func lookup[T any](m map[string]T, id string, errLookup error) (*T, error) {
	if errLookup != nil {
		return nil, errLookup
	}
	v, ok := m[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (s *Store) FindDriver(_ context.Context, id string) (*domain.Driver, error) {
	return lookup(s.DriverByID, id, s.ErrLookup)
}

func (s *Store) FindVehicle(_ context.Context, id string) (*domain.Vehicle, error) {
	return lookup(s.VehicleByID, id, s.ErrLookup)
}

func (s *Store) FindRoute(_ context.Context, id string) (*domain.Route, error) {
	return lookup(s.RouteByID, id, s.ErrLookup)
}

func (s *Store) FindStation(_ context.Context, id string) (*domain.Station, error) {
	return lookup(s.StationByID, id, s.ErrLookup)
}

func (s *Store) RouteNames(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if r, ok := s.RouteByID[id]; ok {
			out[id] = r.Name
		}
	}
	return out, nil
}

func (s *Store) Drivers(_ context.Context, ids []string) (map[string]domain.Driver, error) {
	out := map[string]domain.Driver{}
	for _, id := range ids {
		if d, ok := s.DriverByID[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}
