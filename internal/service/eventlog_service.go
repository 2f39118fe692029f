package service

import (
	"context"
	"time"

	"github.com/dosewise/dosewise/internal/domain"
	"go.uber.org/zap"
)

type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
}

// EventLogService persists the mutation audit trail off the request path. A
// full buffer drops entries rather than blocking the caller.
type EventLogService struct {
	repo    EventRepository
	log     *zap.Logger
	entries chan *domain.Event
	done    chan struct{}
}

const eventBufferSize = 10_000

func NewEventLogService(repo EventRepository, log *zap.Logger) *EventLogService {
	svc := &EventLogService{
		repo:    repo,
		log:     log,
		entries: make(chan *domain.Event, eventBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

type EventEntry struct {
	Action       domain.EventAction
	ResourceType string
	ResourceID   string
	Details      string
}

// Record enqueues an event for async persistence.
func (s *EventLogService) Record(ctx context.Context, entry EventEntry) {
	ev := &domain.Event{
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
	}

	select {
	case s.entries <- ev:
	default:
		s.log.Warn("event buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
		)
	}
}

func (s *EventLogService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("event log shutdown timed out; some entries may be lost")
	}
}

func (s *EventLogService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist event", zap.Error(err))
		}
		cancel()
	}
}
