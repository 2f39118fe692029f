package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewise/dosewise/internal/domain"
	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProtocolService struct {
	repo      protocol.Repository
	medicines medicine.Repository
	events    *EventLogService
	log       *zap.Logger
	now       func() time.Time
}

func NewProtocolService(repo protocol.Repository, medicines medicine.Repository, events *EventLogService, log *zap.Logger) *ProtocolService {
	return &ProtocolService{repo: repo, medicines: medicines, events: events, log: log, now: time.Now}
}

// CreateProtocol creates a treatment protocol, optionally with a titration
// plan. With a plan the protocol starts at stage 0 as of now and the active
// dosage comes from that stage.
func (s *ProtocolService) CreateProtocol(ctx context.Context, cmd *protocol.CreateProtocolCommand) (*protocol.Protocol, error) {
	if _, err := s.medicines.GetByID(ctx, cmd.MedicineID); err != nil {
		return nil, fmt.Errorf("verifying medicine: %w", err)
	}

	p := &protocol.Protocol{
		MedicineID:      cmd.MedicineID,
		DosagePerIntake: cmd.DosagePerIntake,
		Active:          true,
		TitrationStatus: protocol.StatusStable,
	}
	if err := p.SetTimeSchedule(cmd.TimeSchedule); err != nil {
		return nil, err
	}
	if len(cmd.Stages) > 0 {
		if err := p.AttachPlan(cmd.Stages, s.now()); err != nil {
			return nil, err
		}
	}
	if p.DosagePerIntake <= 0 {
		return nil, protocol.ErrInvalidDosage
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating protocol: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionCreate,
		ResourceType: "protocol",
		ResourceID:   p.ID.String(),
	})
	return p, nil
}

func (s *ProtocolService) GetProtocol(ctx context.Context, id uuid.UUID) (*protocol.Protocol, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProtocolService) ListProtocols(ctx context.Context, q *protocol.ListProtocolsQuery) ([]*protocol.Protocol, error) {
	return s.repo.List(ctx, q)
}

// TitrationSnapshot reports stage progress as of now. A nil snapshot means
// the protocol has no usable titration state; that is not an error.
func (s *ProtocolService) TitrationSnapshot(ctx context.Context, id uuid.UUID, now time.Time) (*protocol.TitrationSnapshot, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Snapshot(now), nil
}

// AdvanceStage moves the protocol to its next titration stage. The load,
// mutation, and save run under a row lock so concurrent advances serialize.
func (s *ProtocolService) AdvanceStage(ctx context.Context, id uuid.UUID, now time.Time, forceComplete bool) (*protocol.Protocol, error) {
	p, err := s.repo.Mutate(ctx, id, func(p *protocol.Protocol) error {
		return p.AdvanceStage(now, forceComplete)
	})
	if err != nil {
		return nil, err
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionAdvance,
		ResourceType: "protocol",
		ResourceID:   id.String(),
		Details:      fmt.Sprintf(`{"stage":%d,"status":%q}`, p.CurrentStageIndex, p.TitrationStatus),
	})
	return p, nil
}

// AttachPlan installs or replaces a titration plan on an existing protocol.
func (s *ProtocolService) AttachPlan(ctx context.Context, id uuid.UUID, stages []protocol.TitrationStage) (*protocol.Protocol, error) {
	p, err := s.repo.Mutate(ctx, id, func(p *protocol.Protocol) error {
		return p.AttachPlan(stages, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionUpdate,
		ResourceType: "protocol",
		ResourceID:   id.String(),
		Details:      `{"change":"titration_plan"}`,
	})
	return p, nil
}

// UpdateSchedule replaces the time-of-day schedule.
func (s *ProtocolService) UpdateSchedule(ctx context.Context, id uuid.UUID, times []string) (*protocol.Protocol, error) {
	return s.repo.Mutate(ctx, id, func(p *protocol.Protocol) error {
		return p.SetTimeSchedule(times)
	})
}

// SetActive toggles whether the protocol is currently followed.
func (s *ProtocolService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*protocol.Protocol, error) {
	return s.repo.Mutate(ctx, id, func(p *protocol.Protocol) error {
		p.Active = active
		return nil
	})
}

// DeleteProtocol removes a protocol. The engine itself never deletes; this is
// the external deletion path.
func (s *ProtocolService) DeleteProtocol(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting protocol: %w", err)
	}

	s.events.Record(ctx, EventEntry{
		Action:       domain.ActionDelete,
		ResourceType: "protocol",
		ResourceID:   id.String(),
	})
	return nil
}
