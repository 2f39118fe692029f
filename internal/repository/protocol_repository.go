package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProtocolRepository struct {
	db *gorm.DB
}

func NewProtocolRepository(db *gorm.DB) *ProtocolRepository {
	return &ProtocolRepository{db: db}
}

func (r *ProtocolRepository) Create(ctx context.Context, p *protocol.Protocol) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProtocolRepository) GetByID(ctx context.Context, id uuid.UUID) (*protocol.Protocol, error) {
	var p protocol.Protocol
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, protocol.ErrProtocolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching protocol: %w", err)
	}
	return &p, nil
}

func (r *ProtocolRepository) Update(ctx context.Context, p *protocol.Protocol) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProtocolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&protocol.Protocol{}, "id = ?", id).Error
}

func (r *ProtocolRepository) List(ctx context.Context, q *protocol.ListProtocolsQuery) ([]*protocol.Protocol, error) {
	db := r.db.WithContext(ctx)
	if q != nil {
		if q.MedicineID != nil {
			db = db.Where("medicine_id = ?", *q.MedicineID)
		}
		if q.Active != nil {
			db = db.Where("active = ?", *q.Active)
		}
	}

	var out []*protocol.Protocol
	err := db.Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *ProtocolRepository) ListActive(ctx context.Context) ([]*protocol.Protocol, error) {
	active := true
	return r.List(ctx, &protocol.ListProtocolsQuery{Active: &active})
}

// Mutate loads the protocol FOR UPDATE, applies fn, and saves, all in one
// transaction. Concurrent titration mutations for one protocol serialize on
// the row lock; other protocols are unaffected.
func (r *ProtocolRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(p *protocol.Protocol) error) (*protocol.Protocol, error) {
	var p protocol.Protocol
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return protocol.ErrProtocolNotFound
		}
		if err != nil {
			return fmt.Errorf("locking protocol: %w", err)
		}

		if err := fn(&p); err != nil {
			return err
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
