package protocol

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Protocol) error
	GetByID(ctx context.Context, id uuid.UUID) (*Protocol, error)
	Update(ctx context.Context, p *Protocol) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListProtocolsQuery) ([]*Protocol, error)
	ListActive(ctx context.Context) ([]*Protocol, error)

	// Mutate loads the protocol under a row lock, applies fn, and persists the
	// result in the same transaction. Concurrent mutations of one protocol's
	// titration fields serialize here.
	Mutate(ctx context.Context, id uuid.UUID, fn func(p *Protocol) error) (*Protocol, error)
}
