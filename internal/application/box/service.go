package box

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appClient "github.com/notification-hub/notification-hub/internal/application/client"
	domainBox "github.com/notification-hub/notification-hub/internal/domain/box"
)

// CreateBoxKind tags the outcome of CreateBox.
type CreateBoxKind string

const (
	BoxCreated      CreateBoxKind = "CREATED"
	BoxRetrieved    CreateBoxKind = "RETRIEVED"
	BoxCreateFailed CreateBoxKind = "FAILED"
)

// CreateBoxResult is the tagged outcome of CreateBox; controllers map the kind
// to an HTTP status at the edge.
type CreateBoxResult struct {
	Kind   CreateBoxKind
	Box    *domainBox.Box
	Reason string
}

// Service handles box registration and subscriber binding. Every operation
// that references an existing box enforces that the caller owns it.
type Service struct {
	boxRepo   domainBox.Repository
	clientSvc *appClient.Service
	logger    zerolog.Logger
}

// NewService creates a new box service
func NewService(boxRepo domainBox.Repository, clientSvc *appClient.Service, logger zerolog.Logger) *Service {
	return &Service{
		boxRepo:   boxRepo,
		clientSvc: clientSvc,
		logger:    logger.With().Str("service", "box").Logger(),
	}
}

// CreateBox creates a box, or returns the existing one on a
// (clientId, boxName) collision. Box IDs are server-assigned. The owning
// client is created lazily so every box owner has a signing secret.
func (s *Service) CreateBox(ctx context.Context, clientID, boxName string) (*CreateBoxResult, error) {
	if boxName == "" || clientID == "" {
		return &CreateBoxResult{Kind: BoxCreateFailed, Reason: "boxName and clientId must be non-empty"}, nil
	}

	if _, err := s.clientSvc.FindOrCreateClient(ctx, clientID); err != nil {
		return nil, fmt.Errorf("failed to ensure client exists: %w", err)
	}

	b, created, err := s.boxRepo.Create(ctx, domainBox.NewBox(boxName, clientID))
	if err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	if !created {
		return &CreateBoxResult{Kind: BoxRetrieved, Box: b}, nil
	}

	s.logger.Info().
		Str("box_id", b.BoxID.String()).
		Str("box_name", boxName).
		Str("client_id", clientID).
		Msg("box created")
	return &CreateBoxResult{Kind: BoxCreated, Box: b}, nil
}

// GetBoxByNameAndClientID returns (nil, nil) when the box is absent.
func (s *Service) GetBoxByNameAndClientID(ctx context.Context, boxName, clientID string) (*domainBox.Box, error) {
	return s.boxRepo.GetByNameAndClientID(ctx, boxName, clientID)
}

// GetOwnedBox loads a box and enforces the ownership contract. Returns
// domainBox.ErrNotFound when absent and domainBox.ErrUnauthorized when
// clientID is not the box creator.
func (s *Service) GetOwnedBox(ctx context.Context, boxID uuid.UUID, clientID string) (*domainBox.Box, error) {
	b, err := s.boxRepo.GetByID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	if b == nil {
		return nil, domainBox.ErrNotFound
	}
	if !b.OwnedBy(clientID) {
		return nil, domainBox.ErrUnauthorized
	}
	return b, nil
}

// UpdateSubscriber atomically replaces the box's subscriber.
func (s *Service) UpdateSubscriber(ctx context.Context, boxID uuid.UUID, subscriber *domainBox.Subscriber) error {
	if err := s.boxRepo.UpdateSubscriber(ctx, boxID, subscriber); err != nil {
		return err
	}
	evt := s.logger.Info().Str("box_id", boxID.String())
	if subscriber != nil {
		evt = evt.Str("subscription_type", string(subscriber.Type)).Str("callback_url", subscriber.CallbackURL)
	}
	evt.Msg("subscriber updated")
	return nil
}
