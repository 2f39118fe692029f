package doselog

import (
	"time"

	"github.com/google/uuid"
)

// DoseLog records a single dose actually taken. Logs drive both the inventory
// ledger (each log consumes stock) and the adherence statistics.
type DoseLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ProtocolID uuid.UUID `gorm:"column:protocol_id;type:uuid;not null;index"`
	MedicineID uuid.UUID `gorm:"column:medicine_id;type:uuid;not null;index"`

	QuantityTaken float64   `gorm:"column:quantity_taken;not null"`
	TakenAt       time.Time `gorm:"column:taken_at;not null;index"`

	Notes string `gorm:"column:notes;type:text"`
}

func (DoseLog) TableName() string {
	return "tracker.dose_logs"
}

type LogDoseCommand struct {
	ProtocolID    uuid.UUID
	QuantityTaken float64 // 0 means "use the protocol's current dosage"
	TakenAt       time.Time
	Notes         string
}

// DailyCount is the number of doses taken on one calendar day.
type DailyCount struct {
	Date  time.Time
	Count int
}

type ListDosesQuery struct {
	ProtocolID *uuid.UUID
	MedicineID *uuid.UUID
	Since      *time.Time
	Limit      int
}
