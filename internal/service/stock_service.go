package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain"
	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService is the inventory ledger. Doses consume lots oldest-purchase
// first; corrections arrive as new adjustment lots so history stays intact.
type StockService struct {
	lots   stock.Repository
	events *EventLogService
	log    *zap.Logger
	now    func() time.Time
}

func NewStockService(lots stock.Repository, events *EventLogService, log *zap.Logger) *StockService {
	return &StockService{lots: lots, events: events, log: log, now: time.Now}
}

// TotalQuantity sums the remaining quantity across all lots of a medicine.
func (s *StockService) TotalQuantity(ctx context.Context, medicineID uuid.UUID) (float64, error) {
	return s.lots.TotalQuantity(ctx, medicineID)
}

// Decrease consumes stock FIFO by purchase date. The feasibility check runs
// against the locked lot set before any quantity is written, so an
// insufficient-stock failure never leaves lots partially decremented, and two
// concurrent decreases for one medicine cannot double-spend the same lots.
func (s *StockService) Decrease(ctx context.Context, medicineID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return stock.ErrNonPositiveAmount
	}

	err := s.lots.InMedicineTx(ctx, medicineID, func(tx stock.Repository) error {
		lots, err := tx.ListAvailable(ctx, medicineID)
		if err != nil {
			return fmt.Errorf("listing available lots: %w", err)
		}

		var total float64
		for _, l := range lots {
			total += l.Quantity
		}
		if total < amount {
			return stock.ErrInsufficientStock
		}

		remaining := amount
		for _, l := range lots {
			take := l.Quantity
			if take > remaining {
				take = remaining
			}
			if err := tx.UpdateQuantity(ctx, l.ID, l.Quantity-take); err != nil {
				return fmt.Errorf("updating lot %s: %w", l.ID, err)
			}
			remaining -= take
			if remaining == 0 {
				break
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionConsume,
		ResourceType: "stock",
		ResourceID:   medicineID.String(),
		Details:      fmt.Sprintf(`{"amount":%g}`, amount),
	})
	return nil
}

// Increase records a reversal or correction as a new zero-price lot dated
// today. Existing lots are never touched, which keeps purchases and
// corrections distinguishable in the history.
func (s *StockService) Increase(ctx context.Context, medicineID uuid.UUID, amount float64, reason string) (*stock.Lot, error) {
	if amount <= 0 {
		return nil, stock.ErrNonPositiveAmount
	}

	lot := &stock.Lot{
		MedicineID:   medicineID,
		Quantity:     amount,
		UnitPrice:    0,
		PurchaseDate: s.now().Truncate(24 * time.Hour),
		Notes:        reason,
	}

	err := s.lots.InMedicineTx(ctx, medicineID, func(tx stock.Repository) error {
		return tx.Create(ctx, lot)
	})
	if err != nil {
		return nil, fmt.Errorf("creating adjustment lot: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionAdjust,
		ResourceType: "stock",
		ResourceID:   medicineID.String(),
		Details:      fmt.Sprintf(`{"amount":%g,"reason":%q}`, amount, reason),
	})
	return lot, nil
}

// Add creates a purchase lot directly.
func (s *StockService) Add(ctx context.Context, lot *stock.Lot) error {
	if lot.Quantity <= 0 {
		return stock.ErrNonPositiveAmount
	}
	if err := lot.Validate(); err != nil {
		return err
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionCreate,
		ResourceType: "stock_lot",
		ResourceID:   lot.ID.String(),
	})
	return nil
}

// Delete removes a lot outright. The ledger itself never deletes lots; this
// exists for manual corrections of mis-entered purchases.
func (s *StockService) Delete(ctx context.Context, lotID uuid.UUID) error {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return err
	}
	if err := s.lots.Delete(ctx, lotID); err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionDelete,
		ResourceType: "stock_lot",
		ResourceID:   lotID.String(),
	})
	return nil
}

// ListLots returns all lots of a medicine, consumed and remaining alike.
func (s *StockService) ListLots(ctx context.Context, medicineID uuid.UUID) ([]*stock.Lot, error) {
	return s.lots.ListByMedicine(ctx, medicineID)
}
