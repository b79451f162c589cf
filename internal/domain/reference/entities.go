package reference

import (
	"time"

	"transport-payroll/internal/domain/apperr"

	"gorm.io/gorm"
)

var (
	ErrDriverNotFound      = apperr.NotFound("driver not found")
	ErrVehicleNotFound     = apperr.NotFound("vehicle not found")
	ErrRouteNotFound       = apperr.NotFound("route not found")
	ErrOriginNotFound      = apperr.NotFound("origin station not found")
	ErrDestinationNotFound = apperr.NotFound("destination station not found")
)

// Table: drivers
type Driver struct {
	ID           string         `gorm:"primaryKey;type:char(32)" json:"id"`
	EmployeeCode string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"employee_code"`
	Name         string         `gorm:"type:varchar(128);not null" json:"name"`
	Phone        string         `gorm:"type:varchar(32)" json:"phone,omitempty"`
	UserID       *string        `gorm:"type:char(32);index" json:"user_id,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Driver) TableName() string { return "drivers" }

// Table: vehicles
type Vehicle struct {
	ID          string         `gorm:"primaryKey;type:char(32)" json:"id"`
	PlateNo     string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"plate_no"`
	VehicleType string         `gorm:"type:varchar(64)" json:"vehicle_type,omitempty"`
	Model       string         `gorm:"type:varchar(64)" json:"model,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }

// Table: stations
type Station struct {
	ID        string         `gorm:"primaryKey;type:char(32)" json:"id"`
	Code      string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"type:varchar(128);not null" json:"name"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Station) TableName() string { return "stations" }

// Table: routes
type Route struct {
	ID            string         `gorm:"primaryKey;type:char(32)" json:"id"`
	Code          string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Name          string         `gorm:"type:varchar(128);not null" json:"name"`
	OriginID      string         `gorm:"type:char(32);not null" json:"origin_id"`
	DestinationID string         `gorm:"type:char(32);not null" json:"destination_id"`
	DistanceKm    float64        `gorm:"type:decimal(10,2)" json:"distance_km,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Route) TableName() string { return "routes" }
