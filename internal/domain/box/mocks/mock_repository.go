package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notification-hub/notification-hub/internal/domain/box"
)

// MockRepository is a mock implementation of box.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *box.Box) (*box.Box, bool, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*box.Box), args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetByID(ctx context.Context, boxID uuid.UUID) (*box.Box, error) {
	args := m.Called(ctx, boxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*box.Box), args.Error(1)
}

func (m *MockRepository) GetByNameAndClientID(ctx context.Context, boxName, clientID string) (*box.Box, error) {
	args := m.Called(ctx, boxName, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*box.Box), args.Error(1)
}

func (m *MockRepository) UpdateSubscriber(ctx context.Context, boxID uuid.UUID, subscriber *box.Subscriber) error {
	args := m.Called(ctx, boxID, subscriber)
	return args.Error(0)
}
