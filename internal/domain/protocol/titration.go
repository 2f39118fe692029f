package protocol

import (
	"math"
	"time"
)

// TitrationSnapshot is a read-only view of where a protocol stands inside its
// current titration stage. All day counts are 1-based calendar days.
type TitrationSnapshot struct {
	CurrentStep     int     `json:"current_step"` // 1-based
	TotalSteps      int     `json:"total_steps"`
	DaysElapsed     int     `json:"days_elapsed"`
	TotalDays       int     `json:"total_days"`
	VisualDay       int     `json:"visual_day"`     // clamped to TotalDays for progress bars
	DaysRemaining   int     `json:"days_remaining"` // negative when overdue
	ProgressPercent int     `json:"progress_percent"`
	IsTransitionDue bool    `json:"is_transition_due"`
	StageDosage     float64 `json:"stage_dosage"`
	StageNote       string  `json:"stage_note,omitempty"`
}

// Snapshot computes stage progress as of now. It returns nil when the protocol
// has no titration plan, no stage start timestamp, or an out-of-bounds stage
// index; a corrupted protocol must not crash the caller. Pure, no mutation.
func (p *Protocol) Snapshot(now time.Time) *TitrationSnapshot {
	if len(p.Stages) == 0 || p.StageStartedAt == nil {
		return nil
	}
	if p.CurrentStageIndex < 0 || p.CurrentStageIndex >= len(p.Stages) {
		return nil
	}

	stage := p.Stages[p.CurrentStageIndex]

	// A stage started "today" is on day 1, never day 0.
	daysElapsed := int(math.Ceil(now.Sub(*p.StageStartedAt).Hours() / 24))
	if daysElapsed < 1 {
		daysElapsed = 1
	}

	visualDay := daysElapsed
	if visualDay > stage.Days {
		visualDay = stage.Days
	}

	progress := int(math.Round(float64(daysElapsed) / float64(stage.Days) * 100))
	if progress > 100 {
		progress = 100
	}

	return &TitrationSnapshot{
		CurrentStep:     p.CurrentStageIndex + 1,
		TotalSteps:      len(p.Stages),
		DaysElapsed:     daysElapsed,
		TotalDays:       stage.Days,
		VisualDay:       visualDay,
		DaysRemaining:   stage.Days - daysElapsed,
		ProgressPercent: progress,
		// The stage's last day is still current; day Days+1 is overdue.
		IsTransitionDue: daysElapsed > stage.Days,
		StageDosage:     stage.Dosage,
		StageNote:       stage.Note,
	}
}

// AdvanceStage moves the protocol to the next titration stage as of now. It is
// the only mutator of the titration fields and is always triggered explicitly
// by a caller; the engine never advances on its own.
//
// Past the last stage it clamps the index, marks the target reached, and
// restarts the stage clock so reports can tell when maintenance began. The
// terminal state is re-entrant.
func (p *Protocol) AdvanceStage(now time.Time, forceComplete bool) error {
	if len(p.Stages) == 0 {
		return ErrNoTitrationPlan
	}

	next := p.CurrentStageIndex + 1
	if next >= len(p.Stages) {
		p.TitrationStatus = StatusTargetReached
		p.StageStartedAt = &now
		return nil
	}

	p.CurrentStageIndex = next
	p.DosagePerIntake = p.Stages[next].Dosage
	p.StageStartedAt = &now
	if forceComplete {
		p.TitrationStatus = StatusTargetReached
	} else {
		p.TitrationStatus = StatusTitrating
	}
	return nil
}
