package dispatch

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appClient "github.com/notification-hub/notification-hub/internal/application/client"
	"github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
	"github.com/notification-hub/notification-hub/internal/infrastructure/gateway"
)

// SignatureHeader is forwarded verbatim to the customer's callback so the
// recipient can authenticate the sender.
const SignatureHeader = "X-Hub-Signature"

const gatewayFailureMessage = "PPNS Gateway was unable to successfully deliver notification"

// Gateway performs the outbound call to the push gateway.
type Gateway interface {
	Notify(ctx context.Context, out gateway.OutboundNotification) (bool, error)
}

// Result classifies a push attempt. No error escapes the dispatcher; transport
// failures are folded into a failed result.
type Result struct {
	Successful   bool
	ErrorMessage string
}

// envelope is the JSON serialization of a notification that is both pushed to
// the callback and signed.
type envelope struct {
	NotificationID     uuid.UUID                `json:"notificationId"`
	BoxID              uuid.UUID                `json:"boxId"`
	MessageContentType notification.ContentType `json:"messageContentType"`
	Message            string                   `json:"message"`
	Status             notification.Status      `json:"status"`
	CreatedDateTime    time.Time                `json:"createdDateTime"`
}

// Service turns a (box, notification) pair into a single signed outbound POST
// via the gateway and classifies the outcome.
type Service struct {
	clientSvc *appClient.Service
	gateway   Gateway
	logger    zerolog.Logger
}

// NewService creates a new dispatch service
func NewService(clientSvc *appClient.Service, gw Gateway, logger zerolog.Logger) *Service {
	return &Service{
		clientSvc: clientSvc,
		gateway:   gw,
		logger:    logger.With().Str("service", "dispatch").Logger(),
	}
}

// Push delivers one notification to the box's push subscriber.
func (s *Service) Push(ctx context.Context, b *box.Box, n *notification.Notification) Result {
	cl, err := s.clientSvc.FindOrCreateClient(ctx, b.BoxCreator.ClientID)
	if err != nil {
		return s.failed(n, err.Error())
	}

	payload, err := json.Marshal(envelope{
		NotificationID:     n.NotificationID,
		BoxID:              n.BoxID,
		MessageContentType: n.MessageContentType,
		Message:            n.Message,
		Status:             n.Status,
		CreatedDateTime:    n.CreatedDateTime.UTC(),
	})
	if err != nil {
		return s.failed(n, err.Error())
	}

	out := gateway.OutboundNotification{
		DestinationURL: b.CallbackURL(),
		ForwardedHeaders: []gateway.ForwardedHeader{
			{Key: SignatureHeader, Value: Sign(cl.ActiveSecret().Value, payload)},
		},
		Payload: string(payload),
	}

	successful, err := s.gateway.Notify(ctx, out)
	if err != nil {
		return s.failed(n, err.Error())
	}
	if !successful {
		return s.failed(n, gatewayFailureMessage)
	}

	s.logger.Info().
		Str("notification_id", n.NotificationID.String()).
		Str("box_id", b.BoxID.String()).
		Msg("notification pushed")
	return Result{Successful: true}
}

func (s *Service) failed(n *notification.Notification, msg string) Result {
	s.logger.Warn().
		Str("notification_id", n.NotificationID.String()).
		Str("reason", msg).
		Msg("push failed")
	return Result{Successful: false, ErrorMessage: msg}
}

// Sign computes the X-Hub-Signature value: HMAC-SHA1 over the payload under
// the client's active secret, lowercase hex.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
