package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/notification-hub/notification-hub/internal/application/dispatch"
	"github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
)

// ResultKind tags the outcome of an ingest.
type ResultKind string

const (
	Success             ResultKind = "SUCCESS"
	BoxNotFound         ResultKind = "BOX_NOT_FOUND"
	DuplicateSuppressed ResultKind = "DUPLICATE_SUPPRESSED"
)

// Result is the tagged outcome of SaveAndMaybePush.
type Result struct {
	Kind           ResultKind
	NotificationID uuid.UUID
	Message        string
}

// Pusher delivers one notification through the push gateway.
type Pusher interface {
	Push(ctx context.Context, b *box.Box, n *notification.Notification) dispatch.Result
}

// Service is the single entry point for new notifications: it persists the
// message and makes a best-effort push when the box has a push subscriber.
type Service struct {
	boxRepo          box.Repository
	notificationRepo notification.Repository
	dispatcher       Pusher
	defaultLimit     int
	logger           zerolog.Logger
}

// NewService creates a new delivery service
func NewService(
	boxRepo box.Repository,
	notificationRepo notification.Repository,
	dispatcher Pusher,
	defaultLimit int,
	logger zerolog.Logger,
) *Service {
	return &Service{
		boxRepo:          boxRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		defaultLimit:     defaultLimit,
		logger:           logger.With().Str("service", "delivery").Logger(),
	}
}

// SaveAndMaybePush persists an inbound publish and attempts an immediate push
// when the box has a valid push subscriber. The push is best-effort: its
// failure leaves the notification PENDING for the sweeper and never fails the
// publish.
func (s *Service) SaveAndMaybePush(ctx context.Context, boxID, notificationID uuid.UUID, contentType notification.ContentType, message string) (*Result, error) {
	b, err := s.boxRepo.GetByID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	if b == nil {
		return &Result{Kind: BoxNotFound, Message: fmt.Sprintf("BoxId: %s not found", boxID)}, nil
	}

	n := notification.NewNotification(notificationID, boxID, contentType, message)
	inserted, err := s.notificationRepo.Save(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	if !inserted {
		s.logger.Info().
			Str("notification_id", n.NotificationID.String()).
			Str("box_id", boxID.String()).
			Msg("duplicate notification suppressed")
		return &Result{Kind: DuplicateSuppressed, NotificationID: n.NotificationID}, nil
	}

	if b.HasValidPushSubscriber() {
		if res := s.dispatcher.Push(ctx, b, n); res.Successful {
			if _, err := s.notificationRepo.MarkPushed(ctx, n.NotificationID, time.Now().UTC()); err != nil {
				s.logger.Warn().
					Str("notification_id", n.NotificationID.String()).
					Err(err).
					Msg("failed to record push acknowledgement")
			}
		}
		// On failure the notification stays PENDING with no retryAfterDateTime;
		// the retry sweeper picks it up.
	}

	return &Result{Kind: Success, NotificationID: n.NotificationID}, nil
}

// List returns a box's notifications in ascending created order. Returns
// box.ErrNotFound when the box is absent.
func (s *Service) List(ctx context.Context, boxID uuid.UUID, filter notification.Filter) ([]*notification.Notification, error) {
	b, err := s.boxRepo.GetByID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	if b == nil {
		return nil, box.ErrNotFound
	}
	if filter.Limit <= 0 {
		filter.Limit = s.defaultLimit
	}
	return s.notificationRepo.GetByBoxIDAndFilters(ctx, boxID, filter)
}

// Acknowledge marks the given pending notifications as consumed. A modified
// count below the requested count is logged but still reported as success;
// only a storage error fails the call.
func (s *Service) Acknowledge(ctx context.Context, boxID uuid.UUID, notificationIDs []uuid.UUID) error {
	modified, err := s.notificationRepo.Acknowledge(ctx, boxID, notificationIDs)
	if err != nil {
		return fmt.Errorf("failed to acknowledge notifications: %w", err)
	}
	if modified < int64(len(notificationIDs)) {
		s.logger.Warn().
			Str("box_id", boxID.String()).
			Int("requested", len(notificationIDs)).
			Int64("modified", modified).
			Msg("acknowledge modified fewer notifications than requested")
	}
	return nil
}
