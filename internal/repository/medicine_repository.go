package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medicine.ErrMedicineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching medicine: %w", err)
	}
	return &m, nil
}

func (r *MedicineRepository) Update(ctx context.Context, m *medicine.Medicine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&medicine.Medicine{}, "id = ?", id).Error
}

func (r *MedicineRepository) List(ctx context.Context) ([]*medicine.Medicine, error) {
	var out []*medicine.Medicine
	err := r.db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}
