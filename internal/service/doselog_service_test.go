package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type doseFixture struct {
	svc       *DoseLogService
	doses     *memDoseRepo
	stockRepo *memStockRepo
	protocol  *protocol.Protocol
	now       time.Time
}

func newDoseFixture(t *testing.T, stockQty float64) *doseFixture {
	t.Helper()

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	medID := uuid.New()

	protocols := newMemProtocolRepo()
	p := &protocol.Protocol{
		ID:              uuid.New(),
		MedicineID:      medID,
		DosagePerIntake: 2,
		TimeSchedule:    []string{"08:00", "20:00"},
		Active:          true,
	}
	protocols.protocols[p.ID] = p

	stockRepo := &memStockRepo{}
	if stockQty > 0 {
		seedLot(stockRepo, medID, stockQty, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	}

	events := newTestEvents()
	ledger := NewStockService(stockRepo, events, zap.NewNop())
	ledger.now = func() time.Time { return now }

	doses := &memDoseRepo{}
	svc := NewDoseLogService(doses, protocols, ledger, events, zap.NewNop())
	svc.now = func() time.Time { return now }

	return &doseFixture{svc: svc, doses: doses, stockRepo: stockRepo, protocol: p, now: now}
}

func TestLogDoseConsumesStock(t *testing.T) {
	f := newDoseFixture(t, 10)

	d, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: f.protocol.ID})
	if err != nil {
		t.Fatalf("LogDose() error = %v", err)
	}

	if d.QuantityTaken != 2 {
		t.Errorf("QuantityTaken = %g, want protocol dosage 2", d.QuantityTaken)
	}
	if d.MedicineID != f.protocol.MedicineID {
		t.Errorf("MedicineID = %s, want protocol's medicine", d.MedicineID)
	}
	if !d.TakenAt.Equal(f.now) {
		t.Errorf("TakenAt = %v, want defaulted to now %v", d.TakenAt, f.now)
	}

	total, _ := f.stockRepo.TotalQuantity(context.Background(), f.protocol.MedicineID)
	if total != 8 {
		t.Errorf("stock after dose = %g, want 8", total)
	}
}

func TestLogDoseExplicitQuantity(t *testing.T) {
	f := newDoseFixture(t, 10)

	d, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{
		ProtocolID:    f.protocol.ID,
		QuantityTaken: 0.5,
		TakenAt:       f.now.Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("LogDose() error = %v", err)
	}
	if d.QuantityTaken != 0.5 {
		t.Errorf("QuantityTaken = %g, want 0.5", d.QuantityTaken)
	}

	total, _ := f.stockRepo.TotalQuantity(context.Background(), f.protocol.MedicineID)
	if total != 9.5 {
		t.Errorf("stock after dose = %g, want 9.5", total)
	}
}

func TestLogDoseInsufficientStock(t *testing.T) {
	f := newDoseFixture(t, 1)

	_, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: f.protocol.ID})
	if !errors.Is(err, stock.ErrInsufficientStock) {
		t.Fatalf("LogDose() error = %v, want ErrInsufficientStock", err)
	}

	if len(f.doses.doses) != 0 {
		t.Errorf("dose log count = %d, want 0", len(f.doses.doses))
	}
	total, _ := f.stockRepo.TotalQuantity(context.Background(), f.protocol.MedicineID)
	if total != 1 {
		t.Errorf("stock = %g, want untouched 1", total)
	}
}

func TestLogDoseRejectsFutureTimestamp(t *testing.T) {
	f := newDoseFixture(t, 10)

	_, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{
		ProtocolID: f.protocol.ID,
		TakenAt:    f.now.Add(time.Hour),
	})
	if !errors.Is(err, doselog.ErrTakenAtInFuture) {
		t.Fatalf("LogDose() error = %v, want ErrTakenAtInFuture", err)
	}

	total, _ := f.stockRepo.TotalQuantity(context.Background(), f.protocol.MedicineID)
	if total != 10 {
		t.Errorf("stock = %g, want untouched 10", total)
	}
}

func TestLogDoseRejectsNonPositiveQuantity(t *testing.T) {
	f := newDoseFixture(t, 10)
	f.protocol.DosagePerIntake = 0 // no usable default

	_, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: f.protocol.ID})
	if !errors.Is(err, doselog.ErrNonPositiveDose) {
		t.Errorf("LogDose() error = %v, want ErrNonPositiveDose", err)
	}
}

func TestLogDoseUnknownProtocol(t *testing.T) {
	f := newDoseFixture(t, 10)

	_, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: uuid.New()})
	if !errors.Is(err, protocol.ErrProtocolNotFound) {
		t.Errorf("LogDose() error = %v, want ErrProtocolNotFound", err)
	}
}

func TestLogDoseRestoresStockWhenCreateFails(t *testing.T) {
	f := newDoseFixture(t, 10)
	f.doses.failCreate = true

	_, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: f.protocol.ID})
	if err == nil {
		t.Fatal("LogDose() error = nil, want failure")
	}

	total, _ := f.stockRepo.TotalQuantity(context.Background(), f.protocol.MedicineID)
	if total != 10 {
		t.Errorf("stock after rollback = %g, want 10", total)
	}

	var reversal *stock.Lot
	for _, l := range f.stockRepo.lots {
		if strings.Contains(l.Notes, "rollback") {
			reversal = l
		}
	}
	if reversal == nil {
		t.Fatal("no rollback lot found in ledger")
	}
	if reversal.Quantity != 2 || reversal.UnitPrice != 0 {
		t.Errorf("rollback lot = qty %g price %g, want qty 2 price 0", reversal.Quantity, reversal.UnitPrice)
	}
}

func TestDeleteDoseRestoresStock(t *testing.T) {
	f := newDoseFixture(t, 10)
	ctx := context.Background()

	d, err := f.svc.LogDose(ctx, &doselog.LogDoseCommand{ProtocolID: f.protocol.ID})
	if err != nil {
		t.Fatalf("LogDose() error = %v", err)
	}

	if err := f.svc.DeleteDose(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDose() error = %v", err)
	}

	if len(f.doses.doses) != 0 {
		t.Errorf("dose log count = %d, want 0", len(f.doses.doses))
	}
	total, _ := f.stockRepo.TotalQuantity(ctx, f.protocol.MedicineID)
	if total != 10 {
		t.Errorf("stock after reversal = %g, want 10", total)
	}

	var reversal *stock.Lot
	for _, l := range f.stockRepo.lots {
		if strings.Contains(l.Notes, "reversal of dose log") {
			reversal = l
		}
	}
	if reversal == nil {
		t.Fatal("no reversal lot found in ledger")
	}
	if !strings.Contains(reversal.Notes, d.ID.String()) {
		t.Errorf("reversal notes = %q, want reference to dose log id", reversal.Notes)
	}
}

func TestDeleteDoseUnknown(t *testing.T) {
	f := newDoseFixture(t, 10)

	if err := f.svc.DeleteDose(context.Background(), uuid.New()); !errors.Is(err, doselog.ErrDoseLogNotFound) {
		t.Errorf("DeleteDose() error = %v, want ErrDoseLogNotFound", err)
	}
}

func TestListDosesClampsLimit(t *testing.T) {
	f := newDoseFixture(t, 10)
	for range [3]struct{}{} {
		if _, err := f.svc.LogDose(context.Background(), &doselog.LogDoseCommand{ProtocolID: f.protocol.ID}); err != nil {
			t.Fatalf("LogDose() error = %v", err)
		}
	}

	q := &doselog.ListDosesQuery{Limit: -5}
	got, err := f.svc.ListDoses(context.Background(), q)
	if err != nil {
		t.Fatalf("ListDoses() error = %v", err)
	}
	if q.Limit != 100 {
		t.Errorf("limit = %d, want clamped to 100", q.Limit)
	}
	if len(got) != 3 {
		t.Errorf("dose count = %d, want 3", len(got))
	}
}
