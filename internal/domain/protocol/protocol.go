package protocol

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Titration state transitions:
//
//	stable → titrating          (plan attached)
//	titrating → titrating       (advance while stages remain)
//	titrating → target_reached  (advance past the last stage, or forced)
//	target_reached              (terminal; advancing again is a no-op)
type TitrationStatus string

const (
	StatusStable        TitrationStatus = "stable"
	StatusTitrating     TitrationStatus = "titrating"
	StatusTargetReached TitrationStatus = "target_reached"
)

// TitrationStage is one step of a dose-titration plan: hold Dosage for Days.
type TitrationStage struct {
	Dosage float64 `json:"dosage"`
	Days   int     `json:"days"`
	Note   string  `json:"note,omitempty"`
}

type Protocol struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	MedicineID uuid.UUID `gorm:"column:medicine_id;type:uuid;not null;index"`

	DosagePerIntake float64  `gorm:"column:dosage_per_intake;not null"`
	TimeSchedule    []string `gorm:"column:time_schedule;serializer:json"` // HH:MM, unique, sorted
	Active          bool     `gorm:"column:active;default:true;index"`

	// Titration plan. When Stages is empty, CurrentStageIndex and
	// StageStartedAt carry no meaning and TitrationStatus is "stable".
	Stages            []TitrationStage `gorm:"column:titration_stages;serializer:json"`
	CurrentStageIndex int              `gorm:"column:current_stage_index;default:0"`
	StageStartedAt    *time.Time       `gorm:"column:stage_started_at"`
	TitrationStatus   TitrationStatus  `gorm:"column:titration_status;type:varchar(20);not null;default:'stable'"`
}

func (Protocol) TableName() string {
	return "tracker.protocols"
}

// HasTitrationPlan reports whether a non-empty titration plan is attached.
func (p *Protocol) HasTitrationPlan() bool {
	return len(p.Stages) > 0
}

// AttachPlan installs a titration plan and puts the protocol at stage 0 as of
// now. It replaces any existing plan.
func (p *Protocol) AttachPlan(stages []TitrationStage, now time.Time) error {
	if len(stages) == 0 {
		return ErrNoTitrationPlan
	}
	for _, st := range stages {
		if st.Dosage <= 0 || st.Days <= 0 {
			return ErrInvalidStage
		}
	}
	p.Stages = stages
	p.CurrentStageIndex = 0
	p.StageStartedAt = &now
	p.DosagePerIntake = stages[0].Dosage
	p.TitrationStatus = StatusTitrating
	return nil
}

// SetTimeSchedule validates, de-duplicates, and sorts a time-of-day schedule.
func (p *Protocol) SetTimeSchedule(times []string) error {
	seen := make(map[string]struct{}, len(times))
	cleaned := make([]string, 0, len(times))
	for _, t := range times {
		if _, err := time.Parse("15:04", t); err != nil {
			return ErrInvalidTimeOfDay
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		cleaned = append(cleaned, t)
	}
	sort.Strings(cleaned)
	p.TimeSchedule = cleaned
	return nil
}

type CreateProtocolCommand struct {
	MedicineID      uuid.UUID
	DosagePerIntake float64
	TimeSchedule    []string
	Stages          []TitrationStage
}

type ListProtocolsQuery struct {
	MedicineID *uuid.UUID
	Active     *bool
}
