package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DueDose is one schedule slot falling inside the reminder window, with
// everything a notifier needs to compose a message. Dispatch itself lives
// outside this service.
type DueDose struct {
	ProtocolID     uuid.UUID `json:"protocol_id"`
	MedicineID     uuid.UUID `json:"medicine_id"`
	MedicineName   string    `json:"medicine_name"`
	ScheduledAt    string    `json:"scheduled_at"` // HH:MM
	Dosage         float64   `json:"dosage"`
	DosageUnit     string    `json:"dosage_unit"`
	StockRemaining float64   `json:"stock_remaining"`
	StageChangeDue bool      `json:"stage_change_due"`
}

type ReminderService struct {
	protocols protocol.Repository
	medicines medicine.Repository
	lots      stock.Repository
	window    time.Duration
	log       *zap.Logger
}

func NewReminderService(protocols protocol.Repository, medicines medicine.Repository, lots stock.Repository, window time.Duration, log *zap.Logger) *ReminderService {
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &ReminderService{protocols: protocols, medicines: medicines, lots: lots, window: window, log: log}
}

// DueSchedules lists, per active protocol, the time-of-day slots falling in
// [now, now+window), with current dosage, stock, and whether a titration
// stage change is overdue.
func (s *ReminderService) DueSchedules(ctx context.Context, now time.Time) ([]DueDose, error) {
	protocols, err := s.protocols.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active protocols: %w", err)
	}

	due := make([]DueDose, 0)
	for _, p := range protocols {
		slots := dueSlots(p.TimeSchedule, now, s.window)
		if len(slots) == 0 {
			continue
		}

		med, err := s.medicines.GetByID(ctx, p.MedicineID)
		if err != nil {
			s.log.Warn("skipping protocol with unresolvable medicine",
				zap.String("protocol_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		total, err := s.lots.TotalQuantity(ctx, p.MedicineID)
		if err != nil {
			return nil, fmt.Errorf("reading stock for %s: %w", p.MedicineID, err)
		}

		snap := p.Snapshot(now)
		stageDue := snap != nil && snap.IsTransitionDue

		for _, slot := range slots {
			due = append(due, DueDose{
				ProtocolID:     p.ID,
				MedicineID:     p.MedicineID,
				MedicineName:   med.Name,
				ScheduledAt:    slot,
				Dosage:         p.DosagePerIntake,
				DosageUnit:     med.DosageUnit,
				StockRemaining: total,
				StageChangeDue: stageDue,
			})
		}
	}
	return due, nil
}

// dueSlots returns schedule entries whose today occurrence falls in
// [now, now+window).
func dueSlots(schedule []string, now time.Time, window time.Duration) []string {
	var out []string
	for _, hhmm := range schedule {
		t, err := time.Parse("15:04", hhmm)
		if err != nil {
			continue // schedule is validated on write; skip defensively
		}
		occurrence := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !occurrence.Before(now) && occurrence.Before(now.Add(window)) {
			out = append(out, hhmm)
		}
	}
	return out
}
