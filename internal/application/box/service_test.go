package box

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appClient "github.com/notification-hub/notification-hub/internal/application/client"
	domainBox "github.com/notification-hub/notification-hub/internal/domain/box"
	boxMocks "github.com/notification-hub/notification-hub/internal/domain/box/mocks"
	domainClient "github.com/notification-hub/notification-hub/internal/domain/client"
	clientMocks "github.com/notification-hub/notification-hub/internal/domain/client/mocks"
)

func newTestService(boxRepo *boxMocks.MockRepository, clientRepo *clientMocks.MockRepository) *Service {
	clientSvc := appClient.NewService(clientRepo, zerolog.Nop())
	return NewService(boxRepo, clientSvc, zerolog.Nop())
}

func knownClient(repo *clientMocks.MockRepository, clientID string) {
	repo.On("GetByID", mock.Anything, clientID).Return(&domainClient.Client{
		ID:      clientID,
		Secrets: []domainClient.Secret{{Value: "secret"}},
	}, nil)
}

func TestCreateBox(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a box with a server-assigned id", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		clientRepo := new(clientMocks.MockRepository)
		knownClient(clientRepo, "client-1")

		created := domainBox.NewBox("box one", "client-1")
		boxRepo.On("Create", mock.Anything, mock.AnythingOfType("*box.Box")).
			Return(created, true, nil).
			Run(func(args mock.Arguments) {
				b := args.Get(1).(*domainBox.Box)
				assert.NotEqual(t, uuid.Nil, b.BoxID)
			})

		svc := newTestService(boxRepo, clientRepo)
		result, err := svc.CreateBox(ctx, "client-1", "box one")
		require.NoError(t, err)
		assert.Equal(t, BoxCreated, result.Kind)
		assert.Same(t, created, result.Box)
	})

	t.Run("returns the existing box on a name collision", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		clientRepo := new(clientMocks.MockRepository)
		knownClient(clientRepo, "client-1")

		existing := domainBox.NewBox("box one", "client-1")
		boxRepo.On("Create", mock.Anything, mock.Anything).Return(existing, false, nil)

		svc := newTestService(boxRepo, clientRepo)
		result, err := svc.CreateBox(ctx, "client-1", "box one")
		require.NoError(t, err)
		assert.Equal(t, BoxRetrieved, result.Kind)
		assert.Same(t, existing, result.Box)
	})

	t.Run("rejects empty boxName or clientId", func(t *testing.T) {
		svc := newTestService(new(boxMocks.MockRepository), new(clientMocks.MockRepository))

		result, err := svc.CreateBox(ctx, "", "box one")
		require.NoError(t, err)
		assert.Equal(t, BoxCreateFailed, result.Kind)

		result, err = svc.CreateBox(ctx, "client-1", "")
		require.NoError(t, err)
		assert.Equal(t, BoxCreateFailed, result.Kind)
	})

	t.Run("ensures the owning client exists first", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		clientRepo := new(clientMocks.MockRepository)

		clientRepo.On("GetByID", mock.Anything, "fresh-client").Return(nil, nil)
		clientRepo.On("Insert", mock.Anything, mock.Anything).Return(&domainClient.Client{
			ID:      "fresh-client",
			Secrets: []domainClient.Secret{{Value: "generated"}},
		}, nil)
		boxRepo.On("Create", mock.Anything, mock.Anything).
			Return(domainBox.NewBox("box one", "fresh-client"), true, nil)

		svc := newTestService(boxRepo, clientRepo)
		_, err := svc.CreateBox(ctx, "fresh-client", "box one")
		require.NoError(t, err)
		clientRepo.AssertCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestGetOwnedBox(t *testing.T) {
	ctx := context.Background()
	boxID := uuid.New()

	t.Run("returns the box to its creator", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		b := domainBox.NewBox("box one", "client-1")
		b.BoxID = boxID
		boxRepo.On("GetByID", mock.Anything, boxID).Return(b, nil)

		svc := newTestService(boxRepo, new(clientMocks.MockRepository))
		got, err := svc.GetOwnedBox(ctx, boxID, "client-1")
		require.NoError(t, err)
		assert.Same(t, b, got)
	})

	t.Run("not found when box is absent", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		boxRepo.On("GetByID", mock.Anything, boxID).Return(nil, nil)

		svc := newTestService(boxRepo, new(clientMocks.MockRepository))
		_, err := svc.GetOwnedBox(ctx, boxID, "client-1")
		assert.ErrorIs(t, err, domainBox.ErrNotFound)
	})

	t.Run("unauthorized when caller is not the creator", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		b := domainBox.NewBox("box one", "client-1")
		b.BoxID = boxID
		boxRepo.On("GetByID", mock.Anything, boxID).Return(b, nil)

		svc := newTestService(boxRepo, new(clientMocks.MockRepository))
		_, err := svc.GetOwnedBox(ctx, boxID, "someone-else")
		assert.ErrorIs(t, err, domainBox.ErrUnauthorized)
	})
}

func TestUpdateSubscriber(t *testing.T) {
	ctx := context.Background()
	boxID := uuid.New()

	t.Run("delegates to the repository", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		subscriber := &domainBox.Subscriber{Type: domainBox.SubscriptionPush, CallbackURL: "https://example.com/cb"}
		boxRepo.On("UpdateSubscriber", mock.Anything, boxID, subscriber).Return(nil)

		svc := newTestService(boxRepo, new(clientMocks.MockRepository))
		require.NoError(t, svc.UpdateSubscriber(ctx, boxID, subscriber))
	})

	t.Run("propagates not found", func(t *testing.T) {
		boxRepo := new(boxMocks.MockRepository)
		boxRepo.On("UpdateSubscriber", mock.Anything, boxID, mock.Anything).Return(domainBox.ErrNotFound)

		svc := newTestService(boxRepo, new(clientMocks.MockRepository))
		err := svc.UpdateSubscriber(ctx, boxID, &domainBox.Subscriber{Type: domainBox.SubscriptionPull})
		assert.ErrorIs(t, err, domainBox.ErrNotFound)
	})
}

func TestGetBoxByNameAndClientID(t *testing.T) {
	boxRepo := new(boxMocks.MockRepository)
	boxRepo.On("GetByNameAndClientID", mock.Anything, "box one", "client-1").Return(nil, errors.New("db down"))

	svc := newTestService(boxRepo, new(clientMocks.MockRepository))
	_, err := svc.GetBoxByNameAndClientID(context.Background(), "box one", "client-1")
	assert.Error(t, err)
}
