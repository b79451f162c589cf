package mysql

import (
	"testing"
	"time"

	"transport-payroll/internal/domain/reference"
	tripDomain "transport-payroll/internal/domain/trip"
	"transport-payroll/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
// A single connection keeps all queries on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type refs struct {
	DriverID, OtherDriverID, VehicleID, RouteID, OriginID, DestinationID string
}

func seedRefs(t *testing.T, db *gorm.DB) refs {
	t.Helper()
	r := refs{
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

func makeTrip(r refs, driverID string, date time.Time, status tripDomain.Status) *tripDomain.Trip {
	return &tripDomain.Trip{
		ID:            id.NewID32(),
		TripCode:      tripDomain.NewCode(date),
		DriverID:      driverID,
		VehicleID:     r.VehicleID,
		RouteID:       r.RouteID,
		OriginID:      r.OriginID,
		DestinationID: r.DestinationID,
		TripDate:      date,
		WeightLoaded:  nd("15"),
		Status:        status,
	}
}
