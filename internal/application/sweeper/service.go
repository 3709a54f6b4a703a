package sweeper

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/notification-hub/notification-hub/internal/application/delivery"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
)

// Service is the background task that re-drives pending push notifications
// with back-off and marks them FAILED once the retry window is exhausted.
// Multiple instances are tolerated: status updates are idempotent and the
// terminal states are absorbing.
type Service struct {
	notificationRepo notification.Repository
	dispatcher       delivery.Pusher
	schedule         []time.Duration
	retryWindow      time.Duration
	sweepInterval    time.Duration
	batchSize        int
	logger           zerolog.Logger
}

// NewService creates a new sweeper service. The schedule must be non-empty and
// monotonic non-decreasing (validated by config).
func NewService(
	notificationRepo notification.Repository,
	dispatcher delivery.Pusher,
	schedule []time.Duration,
	retryWindow time.Duration,
	sweepInterval time.Duration,
	batchSize int,
	logger zerolog.Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		schedule:         schedule,
		retryWindow:      retryWindow,
		sweepInterval:    sweepInterval,
		batchSize:        batchSize,
		logger:           logger.With().Str("service", "sweeper").Logger(),
	}
}

// Run executes the sweep loop until ctx is cancelled. Cancellation is observed
// between items and between cycles; an in-flight push is awaited.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.sweepInterval).Msg("retry sweeper started")
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Sweep streams retry-eligible notifications once and drives each through the
// dispatcher. Returns the number of items processed.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	processed := 0
	err := s.notificationRepo.StreamRetryable(ctx, s.batchSize, func(item *notification.Retryable) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := item.Notification
		if res := s.dispatcher.Push(ctx, item.Box, n); res.Successful {
			if _, err := s.notificationRepo.MarkPushed(ctx, n.NotificationID, time.Now().UTC()); err != nil {
				return err
			}
		} else if err := s.scheduleRetry(ctx, n); err != nil {
			return err
		}
		processed++
		return nil
	})
	if err != nil {
		return processed, err
	}
	if processed > 0 {
		s.logger.Info().Int("processed", processed).Msg("sweep completed")
	}
	return processed, nil
}

// scheduleRetry computes the next attempt time from the schedule and either
// defers the notification or, once the next attempt would fall outside the
// retry window, marks it FAILED.
func (s *Service) scheduleRetry(ctx context.Context, n *notification.Notification) error {
	now := time.Now().UTC()
	next := now.Add(jitter(s.nextDelay(n.CreatedDateTime, now)))

	if next.After(n.CreatedDateTime.Add(s.retryWindow)) {
		if _, err := s.notificationRepo.UpdateStatus(ctx, n.NotificationID, notification.StatusFailed); err != nil {
			return err
		}
		s.logger.Warn().
			Str("notification_id", n.NotificationID.String()).
			Time("created", n.CreatedDateTime).
			Msg("retries exhausted, notification failed")
		return nil
	}

	if _, err := s.notificationRepo.UpdateRetryAfter(ctx, n.NotificationID, next); err != nil {
		return err
	}
	s.logger.Debug().
		Str("notification_id", n.NotificationID.String()).
		Time("retry_after", next).
		Msg("push retry scheduled")
	return nil
}

// nextDelay walks the schedule against the elapsed lifetime of the
// notification; attempts past the end of the schedule reuse its last entry, so
// the delay is monotonic non-decreasing with a ceiling.
func (s *Service) nextDelay(created, now time.Time) time.Duration {
	elapsed := now.Sub(created)
	var cum time.Duration
	for _, d := range s.schedule {
		cum += d
		if elapsed < cum {
			return d
		}
	}
	return s.schedule[len(s.schedule)-1]
}

// jitter spreads retries by ±10% to avoid synchronized re-push storms.
func jitter(d time.Duration) time.Duration {
	return d + time.Duration((rand.Float64()*0.2-0.1)*float64(d))
}

// RunTTLPurge deletes notifications past their TTL on the sweep interval until
// ctx is cancelled.
func (s *Service) RunTTLPurge(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.notificationRepo.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error().Err(err).Msg("ttl purge failed")
				}
				continue
			}
			if deleted > 0 {
				s.logger.Info().Int64("deleted", deleted).Msg("expired notifications purged")
			}
		}
	}
}
