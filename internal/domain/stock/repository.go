package stock

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *Lot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*Lot, error)

	// ListAvailable returns lots with quantity > 0 ordered by purchase date
	// ascending (oldest stock first). Inside InMedicineTx the rows come back
	// locked for update.
	ListAvailable(ctx context.Context, medicineID uuid.UUID) ([]*Lot, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error
	TotalQuantity(ctx context.Context, medicineID uuid.UUID) (float64, error)

	// InMedicineTx runs fn inside a transaction that serializes ledger
	// mutations for one medicine. Lots of different medicines stay independent.
	InMedicineTx(ctx context.Context, medicineID uuid.UUID, fn func(tx Repository) error) error
}
