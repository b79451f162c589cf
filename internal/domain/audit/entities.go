package audit

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entity names as stored in audit_logs.entity.
const (
	EntityTrips         = "trips"
	EntityTripRecords   = "trip_records"
	EntitySalaryPeriods = "salary_periods"
	EntitySalaryRules   = "salary_rules"
)

// Table: audit_logs (append only)
type Entry struct {
	ID        string            `gorm:"primaryKey;type:char(32)" json:"id"`
	Entity    string            `gorm:"type:varchar(32);not null;index:idx_audit_entity,priority:1" json:"entity"`
	EntityID  string            `gorm:"type:char(32);not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	Action    Action            `gorm:"type:varchar(8);not null" json:"action"`
	Before    datatypes.JSONMap `json:"before,omitempty"`
	After     datatypes.JSONMap `json:"after,omitempty"`
	Changes   datatypes.JSONMap `json:"changes,omitempty"`
	UserID    string            `gorm:"type:varchar(64)" json:"user_id,omitempty"`
	UserEmail string            `gorm:"type:varchar(255)" json:"user_email,omitempty"`
	IPAddress string            `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent string            `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID string            `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index:idx_audit_entity,priority:3" json:"created_at"`
}

func (Entry) TableName() string { return "audit_logs" }

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// ListForEntity returns the newest entries first.
	ListForEntity(ctx context.Context, entity, entityID string, limit int) ([]Entry, error)
}

// Logger records changes. Implementations never fail the caller's operation.
type Logger interface {
	LogCreate(ctx context.Context, entity, entityID string, after any)
	LogUpdate(ctx context.Context, entity, entityID string, before, after any)
	LogDelete(ctx context.Context, entity, entityID string, before any)
	History(ctx context.Context, entity, entityID string, limit int) ([]Entry, error)
}
