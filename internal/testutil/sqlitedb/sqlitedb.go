// Package sqlitedb opens migrated in-memory databases for tests outside the
// repository package.
package sqlitedb

import (
	"testing"

	"transport-payroll/internal/adapter/repository/mysql"
	"transport-payroll/internal/domain/reference"
	"transport-payroll/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory sqlite DB with every table migrated. It is pinned
// to one connection so all queries share the same database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// Refs holds the ids of one seeded set of reference rows.
type Refs struct {
	DriverID      string
	OtherDriverID string
	VehicleID     string
	RouteID       string
	OriginID      string
	DestinationID string
}

// SeedRefs inserts two drivers, a vehicle, two stations and a route between them.
func SeedRefs(t *testing.T, db *gorm.DB) Refs {
	t.Helper()
	r := Refs{
		DriverID:      id.NewID32(),
		OtherDriverID: id.NewID32(),
		VehicleID:     id.NewID32(),
		RouteID:       id.NewID32(),
		OriginID:      id.NewID32(),
		DestinationID: id.NewID32(),
	}
	rows := []any{
		&reference.Driver{ID: r.DriverID, EmployeeCode: "DRV-" + r.DriverID[:6], Name: "Budi"},
		&reference.Driver{ID: r.OtherDriverID, EmployeeCode: "DRV-" + r.OtherDriverID[:6], Name: "Sari"},
		&reference.Vehicle{ID: r.VehicleID, PlateNo: "B " + r.VehicleID[:4], VehicleType: "dump truck"},
		&reference.Station{ID: r.OriginID, Code: "ST-" + r.OriginID[:6], Name: "Mine A"},
		&reference.Station{ID: r.DestinationID, Code: "ST-" + r.DestinationID[:6], Name: "Port B"},
		&reference.Route{ID: r.RouteID, Code: "RT-" + r.RouteID[:6], Name: "Mine A - Port B", OriginID: r.OriginID, DestinationID: r.DestinationID},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
	return r
}
