package notification

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence. It is the only
// writer of notification state; coordinators drive it through this API.
type Repository interface {
	// Save inserts the notification. On a unique-index violation it returns
	// (false, nil); all other persistence failures propagate.
	Save(ctx context.Context, n *Notification) (bool, error)

	// GetByBoxIDAndFilters returns notifications ordered ascending by
	// CreatedDateTime.
	GetByBoxIDAndFilters(ctx context.Context, boxID uuid.UUID, filter Filter) ([]*Notification, error)

	// Acknowledge sets ACKNOWLEDGED on every matching pending notification and
	// returns the number of rows modified.
	Acknowledge(ctx context.Context, boxID uuid.UUID, notificationIDs []uuid.UUID) (int64, error)

	// UpdateStatus writes the status unconditionally and returns the post-image.
	UpdateStatus(ctx context.Context, notificationID uuid.UUID, status Status) (*Notification, error)

	// MarkPushed records a successful push: status ACKNOWLEDGED plus
	// PushedDateTime.
	MarkPushed(ctx context.Context, notificationID uuid.UUID, pushedAt time.Time) (*Notification, error)

	UpdateRetryAfter(ctx context.Context, notificationID uuid.UUID, retryAfter time.Time) (*Notification, error)

	// StreamRetryable invokes fn for each pending notification that is eligible
	// for push now and whose box has a valid push subscriber. Items are fetched
	// in windows of at most batchSize; the stream is finite per invocation and
	// restartable by calling again. fn returning an error stops the stream.
	StreamRetryable(ctx context.Context, batchSize int, fn func(*Retryable) error) error

	// DeleteExpired physically removes notifications past their TTL and returns
	// the number deleted.
	DeleteExpired(ctx context.Context) (int64, error)

	// EnsureTTL reconciles the store's persisted TTL declaration with the
	// configured value at startup.
	EnsureTTL(ctx context.Context, ttl time.Duration) error
}
