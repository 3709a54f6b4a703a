package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/notification-hub/notification-hub/internal/application/dispatch"
	"github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
	notificationMocks "github.com/notification-hub/notification-hub/internal/domain/notification/mocks"
)

type fakePusher struct {
	result dispatch.Result
	calls  int
}

func (f *fakePusher) Push(ctx context.Context, b *box.Box, n *notification.Notification) dispatch.Result {
	f.calls++
	return f.result
}

func retryableItem(created time.Time) *notification.Retryable {
	b := box.NewBox("box one", "client-1")
	b.Subscriber = &box.Subscriber{
		Type:         box.SubscriptionPush,
		CallbackURL:  "https://example.com/cb",
		SubscribedOn: created,
	}
	n := notification.NewNotification(uuid.New(), b.BoxID, notification.ContentTypeJSON, `{"a":1}`)
	n.CreatedDateTime = created
	return &notification.Retryable{Notification: n, Box: b}
}

func streamOf(items ...*notification.Retryable) func(context.Context, int, func(*notification.Retryable) error) error {
	return func(ctx context.Context, _ int, fn func(*notification.Retryable) error) error {
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}
}

func newSweeper(repo notification.Repository, pusher *fakePusher, schedule []time.Duration, window time.Duration) *Service {
	return NewService(repo, pusher, schedule, window, time.Minute, 100, zerolog.Nop())
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	schedule := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}

	t.Run("marks a successful re-push", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		pusher := &fakePusher{result: dispatch.Result{Successful: true}}
		svc := newSweeper(repo, pusher, schedule, time.Hour)

		item := retryableItem(time.Now().UTC())
		repo.EXPECT().StreamRetryable(gomock.Any(), 100, gomock.Any()).DoAndReturn(streamOf(item))
		repo.EXPECT().MarkPushed(gomock.Any(), item.Notification.NotificationID, gomock.Any()).Return(nil, nil)

		processed, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		assert.Equal(t, 1, pusher.calls)
	})

	t.Run("defers a failed push within the retry window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		pusher := &fakePusher{result: dispatch.Result{Successful: false}}
		svc := newSweeper(repo, pusher, schedule, time.Hour)

		item := retryableItem(time.Now().UTC())
		repo.EXPECT().StreamRetryable(gomock.Any(), 100, gomock.Any()).DoAndReturn(streamOf(item))
		repo.EXPECT().
			UpdateRetryAfter(gomock.Any(), item.Notification.NotificationID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, retryAfter time.Time) (*notification.Notification, error) {
				// first schedule entry is 1s; jitter is bounded at ±10%
				delay := time.Until(retryAfter)
				assert.Greater(t, delay, 800*time.Millisecond)
				assert.Less(t, delay, 1200*time.Millisecond)
				return nil, nil
			})

		processed, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
	})

	t.Run("fails a notification once the window is exhausted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		pusher := &fakePusher{result: dispatch.Result{Successful: false}}
		svc := newSweeper(repo, pusher, schedule, time.Hour)

		item := retryableItem(time.Now().UTC().Add(-2 * time.Hour))
		repo.EXPECT().StreamRetryable(gomock.Any(), 100, gomock.Any()).DoAndReturn(streamOf(item))
		repo.EXPECT().
			UpdateStatus(gomock.Any(), item.Notification.NotificationID, notification.StatusFailed).
			Return(nil, nil)

		processed, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
	})

	t.Run("stops between items on cancellation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		pusher := &fakePusher{result: dispatch.Result{Successful: true}}
		svc := newSweeper(repo, pusher, schedule, time.Hour)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		repo.EXPECT().
			StreamRetryable(gomock.Any(), 100, gomock.Any()).
			DoAndReturn(streamOf(retryableItem(time.Now().UTC())))

		processed, err := svc.Sweep(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, processed)
		assert.Equal(t, 0, pusher.calls)
	})

	t.Run("propagates a persistence error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		pusher := &fakePusher{result: dispatch.Result{Successful: true}}
		svc := newSweeper(repo, pusher, schedule, time.Hour)

		item := retryableItem(time.Now().UTC())
		repo.EXPECT().StreamRetryable(gomock.Any(), 100, gomock.Any()).DoAndReturn(streamOf(item))
		repo.EXPECT().MarkPushed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := svc.Sweep(ctx)
		assert.Error(t, err)
	})
}

func TestNextDelay(t *testing.T) {
	schedule := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}
	svc := newSweeper(nil, nil, schedule, time.Hour)
	created := time.Now().UTC()

	tests := []struct {
		name    string
		elapsed time.Duration
		want    time.Duration
	}{
		{"fresh notification uses the first entry", 0, time.Second},
		{"second attempt", 3 * time.Second, 5 * time.Second},
		{"third attempt", 10 * time.Second, 30 * time.Second},
		{"past the end reuses the last entry", time.Hour, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.nextDelay(created, created.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJitter(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := jitter(10 * time.Second)
		assert.GreaterOrEqual(t, d, 9*time.Second)
		assert.LessOrEqual(t, d, 11*time.Second)
	}
}
