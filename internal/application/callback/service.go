package callback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appBox "github.com/notification-hub/notification-hub/internal/application/box"
	domainBox "github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/infrastructure/events"
	"github.com/notification-hub/notification-hub/internal/infrastructure/gateway"
)

// ResultKind tags the outcome of a callback URL update.
type ResultKind string

const (
	Updated          ResultKind = "UPDATED"
	ValidationFailed ResultKind = "VALIDATION_FAILED"
	UnableToUpdate   ResultKind = "UNABLE_TO_UPDATE"
	BoxNotFound      ResultKind = "BOX_NOT_FOUND"
	Unauthorized     ResultKind = "UNAUTHORIZED"
)

// Result is the tagged outcome of ValidateCallbackURL.
type Result struct {
	Kind         ResultKind
	ErrorMessage string
}

// UpdateCallbackURLRequest carries a candidate callback URL for a box.
type UpdateCallbackURLRequest struct {
	ClientID    string `json:"clientId"`
	CallbackURL string `json:"callbackUrl"`
}

// Gateway probes candidate callback URLs.
type Gateway interface {
	ValidateCallback(ctx context.Context, callbackURL string) (*gateway.CallbackValidationResult, error)
}

// EventsSink receives audit records when a callback URL changes.
type EventsSink interface {
	EmitCallbackURIUpdated(ctx context.Context, event *events.CallbackURIUpdated) error
}

// Service verifies a candidate callback URL via the gateway before the box
// registry persists it, and emits an audit event on change.
type Service struct {
	boxSvc  *appBox.Service
	gateway Gateway
	sink    EventsSink
	logger  zerolog.Logger
}

// NewService creates a new callback service
func NewService(boxSvc *appBox.Service, gw Gateway, sink EventsSink, logger zerolog.Logger) *Service {
	return &Service{
		boxSvc:  boxSvc,
		gateway: gw,
		sink:    sink,
		logger:  logger.With().Str("service", "callback").Logger(),
	}
}

// ValidateCallbackURL runs the callback update protocol: ownership check,
// gateway probe (skipped for an empty URL, which clears the push binding),
// persistence, and audit emission. No error from the gateway or the sink
// escapes as an exception; only storage failures propagate as errors.
func (s *Service) ValidateCallbackURL(ctx context.Context, boxID uuid.UUID, req UpdateCallbackURLRequest) (*Result, error) {
	b, err := s.boxSvc.GetOwnedBox(ctx, boxID, req.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, domainBox.ErrNotFound):
			return &Result{Kind: BoxNotFound, ErrorMessage: fmt.Sprintf("BoxId: %s not found", boxID)}, nil
		case errors.Is(err, domainBox.ErrUnauthorized):
			return &Result{Kind: Unauthorized, ErrorMessage: domainBox.ErrUnauthorized.Error()}, nil
		}
		return nil, err
	}

	oldURL := b.CallbackURL()

	subscriber := &domainBox.Subscriber{
		Type:         domainBox.SubscriptionPull,
		SubscribedOn: time.Now().UTC(),
	}
	if req.CallbackURL != "" {
		res, err := s.gateway.ValidateCallback(ctx, req.CallbackURL)
		if err != nil {
			return &Result{Kind: ValidationFailed, ErrorMessage: err.Error()}, nil
		}
		if !res.Successful {
			msg := res.ErrorMessage
			if msg == "" {
				msg = "Unknown Error"
			}
			return &Result{Kind: ValidationFailed, ErrorMessage: msg}, nil
		}
		subscriber.Type = domainBox.SubscriptionPush
		subscriber.CallbackURL = req.CallbackURL
	}

	if err := s.boxSvc.UpdateSubscriber(ctx, boxID, subscriber); err != nil {
		if errors.Is(err, domainBox.ErrNotFound) {
			return &Result{Kind: BoxNotFound, ErrorMessage: fmt.Sprintf("BoxId: %s not found", boxID)}, nil
		}
		return &Result{Kind: UnableToUpdate, ErrorMessage: err.Error()}, nil
	}

	if oldURL != req.CallbackURL {
		s.emitChangeEvent(ctx, b, oldURL, req.CallbackURL)
	}

	return &Result{Kind: Updated}, nil
}

// emitChangeEvent sends the audit record; emission failure never fails the
// update.
func (s *Service) emitChangeEvent(ctx context.Context, b *domainBox.Box, oldURL, newURL string) {
	applicationID := ""
	if b.ApplicationID != nil {
		applicationID = *b.ApplicationID
	}
	event := events.NewCallbackURIUpdated(b.BoxID, b.BoxName, applicationID, oldURL, newURL)
	if err := s.sink.EmitCallbackURIUpdated(ctx, event); err != nil {
		s.logger.Warn().
			Str("box_id", b.BoxID.String()).
			Err(err).
			Msg("failed to emit callback uri updated event")
	}
}
