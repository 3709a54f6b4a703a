package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/notification-hub/notification-hub/internal/domain/client"
)

// MockRepository is a mock implementation of client.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, c *client.Client) (*client.Client, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, clientID string) (*client.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}
