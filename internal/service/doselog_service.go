package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain"
	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DoseLogService ties dose logging to the inventory ledger: logging a dose
// consumes stock, deleting a log puts it back as a reversal lot.
type DoseLogService struct {
	repo      doselog.Repository
	protocols protocol.Repository
	ledger    *StockService
	events    *EventLogService
	log       *zap.Logger
	now       func() time.Time
}

func NewDoseLogService(repo doselog.Repository, protocols protocol.Repository, ledger *StockService, events *EventLogService, log *zap.Logger) *DoseLogService {
	return &DoseLogService{repo: repo, protocols: protocols, ledger: ledger, events: events, log: log, now: time.Now}
}

// LogDose records a dose and decreases stock by the quantity taken. If stock
// is insufficient the dose is not recorded.
func (s *DoseLogService) LogDose(ctx context.Context, cmd *doselog.LogDoseCommand) (*doselog.DoseLog, error) {
	p, err := s.protocols.GetByID(ctx, cmd.ProtocolID)
	if err != nil {
		return nil, err
	}

	qty := cmd.QuantityTaken
	if qty == 0 {
		qty = p.DosagePerIntake
	}
	if qty <= 0 {
		return nil, doselog.ErrNonPositiveDose
	}

	takenAt := cmd.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}
	if takenAt.After(s.now()) {
		return nil, doselog.ErrTakenAtInFuture
	}

	if err := s.ledger.Decrease(ctx, p.MedicineID, qty); err != nil {
		return nil, err
	}

	d := &doselog.DoseLog{
		ProtocolID:    p.ID,
		MedicineID:    p.MedicineID,
		QuantityTaken: qty,
		TakenAt:       takenAt,
		Notes:         cmd.Notes,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		// Put the consumed stock back; the dose was never recorded.
		if _, incErr := s.ledger.Increase(ctx, p.MedicineID, qty, "rollback: dose log creation failed"); incErr != nil {
			s.log.Error("failed to restore stock after dose log failure",
				zap.String("medicine_id", p.MedicineID.String()),
				zap.Float64("quantity", qty),
				zap.Error(incErr),
			)
		}
		return nil, fmt.Errorf("creating dose log: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionCreate,
		ResourceType: "dose_log",
		ResourceID:   d.ID.String(),
		Details:      fmt.Sprintf(`{"quantity":%g}`, qty),
	})
	return d, nil
}

// DeleteDose removes a dose log and restores the consumed stock as a reversal
// lot, keeping the correction visible in the ledger history.
func (s *DoseLogService) DeleteDose(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting dose log: %w", err)
	}

	reason := fmt.Sprintf("reversal of dose log %s", id)
	if _, err := s.ledger.Increase(ctx, d.MedicineID, d.QuantityTaken, reason); err != nil {
		return fmt.Errorf("restoring stock: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionDelete,
		ResourceType: "dose_log",
		ResourceID:   id.String(),
	})
	return nil
}

func (s *DoseLogService) ListDoses(ctx context.Context, q *doselog.ListDosesQuery) ([]*doselog.DoseLog, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	return s.repo.List(ctx, q)
}
