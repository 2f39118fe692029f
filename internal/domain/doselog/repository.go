package doselog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *DoseLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*DoseLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListDosesQuery) ([]*DoseLog, error)

	// CountPerDay aggregates doses taken per calendar day since the given
	// time, oldest first. Days without doses are absent; callers gap-fill.
	CountPerDay(ctx context.Context, since time.Time) ([]DailyCount, error)
}
