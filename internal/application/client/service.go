package client

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domainClient "github.com/notification-hub/notification-hub/internal/domain/client"
)

// Service handles API client registration and secret lookup. Clients are
// created lazily on first reference and never deleted.
type Service struct {
	clientRepo domainClient.Repository
	logger     zerolog.Logger
}

// NewService creates a new client service
func NewService(clientRepo domainClient.Repository, logger zerolog.Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger.With().Str("service", "client").Logger(),
	}
}

// FindOrCreateClient returns the client, generating a fresh secret and
// persisting a new record when the client is unknown. Idempotent: a concurrent
// create of the same client yields the stored record.
func (s *Service) FindOrCreateClient(ctx context.Context, clientID string) (*domainClient.Client, error) {
	existing, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	fresh, err := domainClient.NewClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client secret: %w", err)
	}
	stored, err := s.clientRepo.Insert(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}

	s.logger.Info().Str("client_id", clientID).Msg("client created")
	return stored, nil
}

// GetClientSecrets returns the ordered secret list, or nil when the client is
// unknown.
func (s *Service) GetClientSecrets(ctx context.Context, clientID string) ([]domainClient.Secret, error) {
	c, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, nil
	}
	return c.Secrets, nil
}
