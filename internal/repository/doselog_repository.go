package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoseLogRepository struct {
	db *gorm.DB
}

func NewDoseLogRepository(db *gorm.DB) *DoseLogRepository {
	return &DoseLogRepository{db: db}
}

func (r *DoseLogRepository) Create(ctx context.Context, d *doselog.DoseLog) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DoseLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*doselog.DoseLog, error) {
	var d doselog.DoseLog
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doselog.ErrDoseLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching dose log: %w", err)
	}
	return &d, nil
}

func (r *DoseLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&doselog.DoseLog{}, "id = ?", id).Error
}

func (r *DoseLogRepository) List(ctx context.Context, q *doselog.ListDosesQuery) ([]*doselog.DoseLog, error) {
	db := r.db.WithContext(ctx)
	if q != nil {
		if q.ProtocolID != nil {
			db = db.Where("protocol_id = ?", *q.ProtocolID)
		}
		if q.MedicineID != nil {
			db = db.Where("medicine_id = ?", *q.MedicineID)
		}
		if q.Since != nil {
			db = db.Where("taken_at >= ?", *q.Since)
		}
		if q.Limit > 0 {
			db = db.Limit(q.Limit)
		}
	}

	var out []*doselog.DoseLog
	err := db.Order("taken_at desc").Find(&out).Error
	return out, err
}

func (r *DoseLogRepository) CountPerDay(ctx context.Context, since time.Time) ([]doselog.DailyCount, error) {
	rows := []struct {
		Day   time.Time
		Count int
	}{}

	err := r.db.WithContext(ctx).
		Model(&doselog.DoseLog{}).
		Select("date_trunc('day', taken_at) AS day, COUNT(*) AS count").
		Where("taken_at >= ?", since).
		Group("day").
		Order("day asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]doselog.DailyCount, len(rows))
	for i, row := range rows {
		out[i] = doselog.DailyCount{Date: row.Day, Count: row.Count}
	}
	return out, nil
}
