package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository persists stock lots. Inside InMedicineTx the repository
// hands out a transaction-bound copy whose reads lock the lot rows, which is
// what serializes concurrent ledger mutations per medicine.
type StockRepository struct {
	db      *gorm.DB
	locking bool
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Create(ctx context.Context, l *stock.Lot) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *StockRepository) GetByID(ctx context.Context, id uuid.UUID) (*stock.Lot, error) {
	var l stock.Lot
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, stock.ErrLotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching lot: %w", err)
	}
	return &l, nil
}

func (r *StockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&stock.Lot{}, "id = ?", id).Error
}

func (r *StockRepository) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*stock.Lot, error) {
	var out []*stock.Lot
	err := r.db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Order("purchase_date asc, created_at asc").
		Find(&out).Error
	return out, err
}

// ListAvailable returns lots with remaining stock, oldest purchase first.
// FIFO consumption order is by purchase date, not expiration.
func (r *StockRepository) ListAvailable(ctx context.Context, medicineID uuid.UUID) ([]*stock.Lot, error) {
	db := r.db.WithContext(ctx)
	if r.locking {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var out []*stock.Lot
	err := db.
		Where("medicine_id = ? AND quantity > 0", medicineID).
		Order("purchase_date asc, created_at asc").
		Find(&out).Error
	return out, err
}

func (r *StockRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	res := r.db.WithContext(ctx).
		Model(&stock.Lot{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return stock.ErrLotNotFound
	}
	return nil
}

func (r *StockRepository) TotalQuantity(ctx context.Context, medicineID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&stock.Lot{}).
		Where("medicine_id = ?", medicineID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *StockRepository) InMedicineTx(ctx context.Context, medicineID uuid.UUID, fn func(tx stock.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&StockRepository{db: txdb, locking: true})
	})
}
