package box

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for box persistence.
type Repository interface {
	// Create inserts the box. On a (clientId, boxName) collision it returns the
	// existing box and created=false; no duplicate row is written.
	Create(ctx context.Context, b *Box) (existing *Box, created bool, err error)

	GetByID(ctx context.Context, boxID uuid.UUID) (*Box, error)
	GetByNameAndClientID(ctx context.Context, boxName, clientID string) (*Box, error)

	// UpdateSubscriber atomically replaces the box's subscriber. Returns
	// ErrNotFound if the box is absent.
	UpdateSubscriber(ctx context.Context, boxID uuid.UUID, subscriber *Subscriber) error
}
