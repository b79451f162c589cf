package trip

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordType string

const (
	RecordWeightTicketLoad   RecordType = "WEIGHT_TICKET_LOAD"
	RecordWeightTicketUnload RecordType = "WEIGHT_TICKET_UNLOAD"
	RecordPhoto              RecordType = "PHOTO"
	RecordOther              RecordType = "OTHER"
)

// ParseRecordType defaults an empty value to PHOTO.
func ParseRecordType(raw string) (RecordType, error) {
	switch t := RecordType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case "":
		return RecordPhoto, nil
	case RecordWeightTicketLoad, RecordWeightTicketUnload, RecordPhoto, RecordOther:
		return t, nil
	}
	return "", ErrInvalidRecordType
}

// Table: trip_records
type Record struct {
	ID          string              `gorm:"primaryKey;type:char(32)" json:"id"`
	TripID      string              `gorm:"type:char(32);not null;index" json:"trip_id"`
	RecordType  RecordType          `gorm:"type:varchar(32);not null" json:"record_type"`
	FileURL     string              `gorm:"type:text;not null" json:"file_url"`
	FileName    string              `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileType    string              `gorm:"type:varchar(64)" json:"file_type,omitempty"`
	TicketNo    string              `gorm:"type:varchar(64)" json:"ticket_no,omitempty"`
	Weight      decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"weight"`
	Note        string              `gorm:"type:text" json:"note,omitempty"`
	WeighedAt   *time.Time          `json:"weighed_at,omitempty"`
	CreatedByID string              `gorm:"type:varchar(64)" json:"created_by_id,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (Record) TableName() string { return "trip_records" }

// StampWeighing sets WeighedAt iff a weight was recorded.
func (r *Record) StampWeighing(now time.Time) {
	if r.Weight.Valid {
		at := now
		r.WeighedAt = &at
		return
	}
	r.WeighedAt = nil
}
