package medicine

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMedicine   Type = "medicine"
	TypeSupplement Type = "supplement"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeMedicine, TypeSupplement:
		return true
	}
	return false
}

type Medicine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name          string  `gorm:"column:name;type:varchar(255);not null;index"`
	DosagePerUnit float64 `gorm:"column:dosage_per_unit;not null"`              // amount of active substance per unit
	DosageUnit    string  `gorm:"column:dosage_unit;type:varchar(20);not null"` // e.g. "mg", "ml"
	Type          Type    `gorm:"column:type;type:varchar(20);not null;default:'medicine';index"`

	Notes string `gorm:"column:notes;type:text"`
}

func (Medicine) TableName() string {
	return "tracker.medicines"
}

func (m *Medicine) Validate() error {
	if m.Name == "" {
		return ErrNameRequired
	}
	if m.DosagePerUnit <= 0 {
		return ErrInvalidDosage
	}
	if m.DosageUnit == "" {
		return ErrUnitRequired
	}
	if !m.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

type CreateMedicineCommand struct {
	Name          string
	DosagePerUnit float64
	DosageUnit    string
	Type          Type
	Notes         string
}

type UpdateMedicineCommand struct {
	Name          *string
	DosagePerUnit *float64
	DosageUnit    *string
	Type          *Type
	Notes         *string
}
