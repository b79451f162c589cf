package mysql

import (
	"transport-payroll/internal/domain/audit"
	"transport-payroll/internal/domain/reference"
	"transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"

	"gorm.io/gorm"
)

// Models lists every table the service owns, reference tables first.
func Models() []any {
	return []any{
		&reference.Driver{},
		&reference.Vehicle{},
		&reference.Station{},
		&reference.Route{},
		&trip.Trip{},
		&trip.Record{},
		&salary.Rule{},
		&salary.Period{},
		&salary.Result{},
		&audit.Entry{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
