package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appClient "github.com/notification-hub/notification-hub/internal/application/client"
	"github.com/notification-hub/notification-hub/internal/domain/box"
	domainClient "github.com/notification-hub/notification-hub/internal/domain/client"
	clientMocks "github.com/notification-hub/notification-hub/internal/domain/client/mocks"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
	"github.com/notification-hub/notification-hub/internal/infrastructure/gateway"
)

type fakeGateway struct {
	successful bool
	err        error
	captured   *gateway.OutboundNotification
}

func (f *fakeGateway) Notify(ctx context.Context, out gateway.OutboundNotification) (bool, error) {
	f.captured = &out
	return f.successful, f.err
}

func pushBox(clientID, callbackURL string) *box.Box {
	b := box.NewBox("box one", clientID)
	b.Subscriber = &box.Subscriber{
		Type:         box.SubscriptionPush,
		CallbackURL:  callbackURL,
		SubscribedOn: time.Now().UTC(),
	}
	return b
}

func newDispatchService(gw Gateway, secret string) *Service {
	clientRepo := new(clientMocks.MockRepository)
	clientRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domainClient.Client{
		ID:      "client-1",
		Secrets: []domainClient.Secret{{Value: secret}},
	}, nil)
	clientSvc := appClient.NewService(clientRepo, zerolog.Nop())
	return NewService(clientSvc, gw, zerolog.Nop())
}

func TestPush(t *testing.T) {
	ctx := context.Background()

	t.Run("sends a signed envelope to the callback", func(t *testing.T) {
		gw := &fakeGateway{successful: true}
		svc := newDispatchService(gw, "signing-secret")

		b := pushBox("client-1", "https://example.com/cb")
		n := notification.NewNotification(uuid.New(), b.BoxID, notification.ContentTypeJSON, `{"hello":"world"}`)

		result := svc.Push(ctx, b, n)
		require.True(t, result.Successful)

		require.NotNil(t, gw.captured)
		assert.Equal(t, "https://example.com/cb", gw.captured.DestinationURL)

		require.Len(t, gw.captured.ForwardedHeaders, 1)
		header := gw.captured.ForwardedHeaders[0]
		assert.Equal(t, "X-Hub-Signature", header.Key)
		assert.Equal(t, Sign("signing-secret", []byte(gw.captured.Payload)), header.Value)

		var env map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(gw.captured.Payload), &env))
		assert.Equal(t, n.NotificationID.String(), env["notificationId"])
		assert.Equal(t, b.BoxID.String(), env["boxId"])
		assert.Equal(t, "application/json", env["messageContentType"])
		assert.Equal(t, `{"hello":"world"}`, env["message"])
		assert.Equal(t, "PENDING", env["status"])
	})

	t.Run("classifies a gateway-declared failure", func(t *testing.T) {
		gw := &fakeGateway{successful: false}
		svc := newDispatchService(gw, "signing-secret")

		b := pushBox("client-1", "https://example.com/cb")
		n := notification.NewNotification(uuid.Nil, b.BoxID, notification.ContentTypeJSON, `{}`)

		result := svc.Push(ctx, b, n)
		assert.False(t, result.Successful)
		assert.Equal(t, "PPNS Gateway was unable to successfully deliver notification", result.ErrorMessage)
	})

	t.Run("classifies a transport error", func(t *testing.T) {
		gw := &fakeGateway{err: errors.New("connection refused")}
		svc := newDispatchService(gw, "signing-secret")

		b := pushBox("client-1", "https://example.com/cb")
		n := notification.NewNotification(uuid.Nil, b.BoxID, notification.ContentTypeJSON, `{}`)

		result := svc.Push(ctx, b, n)
		assert.False(t, result.Successful)
		assert.Contains(t, result.ErrorMessage, "connection refused")
	})

	t.Run("classifies a client lookup failure", func(t *testing.T) {
		clientRepo := new(clientMocks.MockRepository)
		clientRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		clientSvc := appClient.NewService(clientRepo, zerolog.Nop())
		gw := &fakeGateway{successful: true}
		svc := NewService(clientSvc, gw, zerolog.Nop())

		b := pushBox("client-1", "https://example.com/cb")
		n := notification.NewNotification(uuid.Nil, b.BoxID, notification.ContentTypeJSON, `{}`)

		result := svc.Push(ctx, b, n)
		assert.False(t, result.Successful)
		assert.Nil(t, gw.captured)
	})
}

func TestSign(t *testing.T) {
	payload := []byte(`{"notificationId":"n1"}`)

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, Sign("secret", payload), Sign("secret", payload))
	})

	t.Run("is lowercase hex of a sha1 mac", func(t *testing.T) {
		sig := Sign("secret", payload)
		assert.Len(t, sig, 40)
		assert.Regexp(t, "^[0-9a-f]+$", sig)
	})

	t.Run("changes with the secret", func(t *testing.T) {
		assert.NotEqual(t, Sign("secret", payload), Sign("rotated", payload))
	})

	t.Run("changes with the payload", func(t *testing.T) {
		assert.NotEqual(t, Sign("secret", payload), Sign("secret", append([]byte(nil), payload[1:]...)))
	})
}
