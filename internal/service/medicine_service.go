package service

import (
	"context"
	"fmt"

	"github.com/dosewise/dosewise/internal/domain"
	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MedicineService struct {
	repo      medicine.Repository
	protocols protocol.Repository
	events    *EventLogService
	log       *zap.Logger
}

func NewMedicineService(repo medicine.Repository, protocols protocol.Repository, events *EventLogService, log *zap.Logger) *MedicineService {
	return &MedicineService{repo: repo, protocols: protocols, events: events, log: log}
}

func (s *MedicineService) CreateMedicine(ctx context.Context, cmd *medicine.CreateMedicineCommand) (*medicine.Medicine, error) {
	m := &medicine.Medicine{
		Name:          cmd.Name,
		DosagePerUnit: cmd.DosagePerUnit,
		DosageUnit:    cmd.DosageUnit,
		Type:          cmd.Type,
		Notes:         cmd.Notes,
	}
	if m.Type == "" {
		m.Type = medicine.TypeMedicine
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionCreate,
		ResourceType: "medicine",
		ResourceID:   m.ID.String(),
	})
	return m, nil
}

func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) ListMedicines(ctx context.Context) ([]*medicine.Medicine, error) {
	return s.repo.List(ctx)
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, cmd *medicine.UpdateMedicineCommand) (*medicine.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		m.Name = *cmd.Name
	}
	if cmd.DosagePerUnit != nil {
		m.DosagePerUnit = *cmd.DosagePerUnit
	}
	if cmd.DosageUnit != nil {
		m.DosageUnit = *cmd.DosageUnit
	}
	if cmd.Type != nil {
		m.Type = *cmd.Type
	}
	if cmd.Notes != nil {
		m.Notes = *cmd.Notes
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating medicine: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionUpdate,
		ResourceType: "medicine",
		ResourceID:   m.ID.String(),
	})
	return m, nil
}

// DeleteMedicine refuses to remove a medicine still referenced by a protocol.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.protocols.List(ctx, &protocol.ListProtocolsQuery{MedicineID: &id})
	if err != nil {
		return fmt.Errorf("checking protocol references: %w", err)
	}
	if len(refs) > 0 {
		return ErrMedicineInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting medicine: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionDelete,
		ResourceType: "medicine",
		ResourceID:   id.String(),
	})
	return nil
}
