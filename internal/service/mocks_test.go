package service

// In-memory repository fakes shared across the service tests.

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dosewise/dosewise/internal/domain"
	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memEventRepo absorbs audit events. It is the only fake touched from the
// event log worker goroutine, hence the mutex.
type memEventRepo struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (r *memEventRepo) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func newTestEvents() *EventLogService {
	return NewEventLogService(&memEventRepo{}, zap.NewNop())
}

type memStockRepo struct {
	lots       []*stock.Lot
	failCreate bool
}

func (r *memStockRepo) Create(_ context.Context, l *stock.Lot) error {
	if r.failCreate {
		return errors.New("create failed")
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lots = append(r.lots, l)
	return nil
}

func (r *memStockRepo) GetByID(_ context.Context, id uuid.UUID) (*stock.Lot, error) {
	for _, l := range r.lots {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, stock.ErrLotNotFound
}

func (r *memStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, l := range r.lots {
		if l.ID == id {
			r.lots = append(r.lots[:i], r.lots[i+1:]...)
			return nil
		}
	}
	return stock.ErrLotNotFound
}

func (r *memStockRepo) ListByMedicine(_ context.Context, medicineID uuid.UUID) ([]*stock.Lot, error) {
	var out []*stock.Lot
	for _, l := range r.lots {
		if l.MedicineID == medicineID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memStockRepo) ListAvailable(_ context.Context, medicineID uuid.UUID) ([]*stock.Lot, error) {
	var out []*stock.Lot
	for _, l := range r.lots {
		if l.MedicineID == medicineID && l.Quantity > 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PurchaseDate.Before(out[j].PurchaseDate)
	})
	return out, nil
}

func (r *memStockRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity float64) error {
	for _, l := range r.lots {
		if l.ID == id {
			l.Quantity = quantity
			return nil
		}
	}
	return stock.ErrLotNotFound
}

func (r *memStockRepo) TotalQuantity(_ context.Context, medicineID uuid.UUID) (float64, error) {
	var total float64
	for _, l := range r.lots {
		if l.MedicineID == medicineID {
			total += l.Quantity
		}
	}
	return total, nil
}

// InMedicineTx mimics transactional rollback: on error the lot set is
// restored to its pre-fn state.
func (r *memStockRepo) InMedicineTx(_ context.Context, _ uuid.UUID, fn func(tx stock.Repository) error) error {
	snapshot := make([]*stock.Lot, len(r.lots))
	for i, l := range r.lots {
		cp := *l
		snapshot[i] = &cp
	}

	if err := fn(r); err != nil {
		r.lots = snapshot
		return err
	}
	return nil
}

type memProtocolRepo struct {
	protocols map[uuid.UUID]*protocol.Protocol
}

func newMemProtocolRepo() *memProtocolRepo {
	return &memProtocolRepo{protocols: make(map[uuid.UUID]*protocol.Protocol)}
}

func (r *memProtocolRepo) Create(_ context.Context, p *protocol.Protocol) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.protocols[p.ID] = p
	return nil
}

func (r *memProtocolRepo) GetByID(_ context.Context, id uuid.UUID) (*protocol.Protocol, error) {
	p, ok := r.protocols[id]
	if !ok {
		return nil, protocol.ErrProtocolNotFound
	}
	return p, nil
}

func (r *memProtocolRepo) Update(_ context.Context, p *protocol.Protocol) error {
	if _, ok := r.protocols[p.ID]; !ok {
		return protocol.ErrProtocolNotFound
	}
	r.protocols[p.ID] = p
	return nil
}

func (r *memProtocolRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.protocols[id]; !ok {
		return protocol.ErrProtocolNotFound
	}
	delete(r.protocols, id)
	return nil
}

func (r *memProtocolRepo) List(_ context.Context, q *protocol.ListProtocolsQuery) ([]*protocol.Protocol, error) {
	var out []*protocol.Protocol
	for _, p := range r.protocols {
		if q != nil && q.MedicineID != nil && p.MedicineID != *q.MedicineID {
			continue
		}
		if q != nil && q.Active != nil && p.Active != *q.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memProtocolRepo) ListActive(_ context.Context) ([]*protocol.Protocol, error) {
	var out []*protocol.Protocol
	for _, p := range r.protocols {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProtocolRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(p *protocol.Protocol) error) (*protocol.Protocol, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

type memMedicineRepo struct {
	medicines map[uuid.UUID]*medicine.Medicine
}

func newMemMedicineRepo() *memMedicineRepo {
	return &memMedicineRepo{medicines: make(map[uuid.UUID]*medicine.Medicine)}
}

func (r *memMedicineRepo) Create(_ context.Context, m *medicine.Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.medicines[m.ID] = m
	return nil
}

func (r *memMedicineRepo) GetByID(_ context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}
	return m, nil
}

func (r *memMedicineRepo) Update(_ context.Context, m *medicine.Medicine) error {
	if _, ok := r.medicines[m.ID]; !ok {
		return medicine.ErrMedicineNotFound
	}
	r.medicines[m.ID] = m
	return nil
}

func (r *memMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.medicines[id]; !ok {
		return medicine.ErrMedicineNotFound
	}
	delete(r.medicines, id)
	return nil
}

func (r *memMedicineRepo) List(_ context.Context) ([]*medicine.Medicine, error) {
	var out []*medicine.Medicine
	for _, m := range r.medicines {
		out = append(out, m)
	}
	return out, nil
}

type memDoseRepo struct {
	doses      []*doselog.DoseLog
	counts     []doselog.DailyCount // canned CountPerDay result
	failCreate bool
}

func (r *memDoseRepo) Create(_ context.Context, d *doselog.DoseLog) error {
	if r.failCreate {
		return errors.New("create failed")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doses = append(r.doses, d)
	return nil
}

func (r *memDoseRepo) GetByID(_ context.Context, id uuid.UUID) (*doselog.DoseLog, error) {
	for _, d := range r.doses {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, doselog.ErrDoseLogNotFound
}

func (r *memDoseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, d := range r.doses {
		if d.ID == id {
			r.doses = append(r.doses[:i], r.doses[i+1:]...)
			return nil
		}
	}
	return doselog.ErrDoseLogNotFound
}

func (r *memDoseRepo) List(_ context.Context, q *doselog.ListDosesQuery) ([]*doselog.DoseLog, error) {
	var out []*doselog.DoseLog
	for _, d := range r.doses {
		if q.ProtocolID != nil && d.ProtocolID != *q.ProtocolID {
			continue
		}
		if q.MedicineID != nil && d.MedicineID != *q.MedicineID {
			continue
		}
		out = append(out, d)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (r *memDoseRepo) CountPerDay(_ context.Context, _ time.Time) ([]doselog.DailyCount, error) {
	return r.counts, nil
}
