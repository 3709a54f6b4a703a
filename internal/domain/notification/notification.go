package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/notification-hub/notification-hub/internal/domain/box"
)

// Status represents the delivery status of a notification.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusAcknowledged Status = "ACKNOWLEDGED"
	StatusFailed       Status = "FAILED"
)

// ContentType is the declared media type of the published message.
type ContentType string

const (
	ContentTypeJSON ContentType = "application/json"
	ContentTypeXML  ContentType = "application/xml"
)

var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidContentType = errors.New("unsupported message content type")
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAcknowledged, StatusFailed:
		return Status(s), true
	}
	return "", false
}

// ParseContentType validates a content type string.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentTypeJSON, ContentTypeXML:
		return ContentType(s), true
	}
	return "", false
}

// Notification is a message published into a box, awaiting pull or push
// consumption.
type Notification struct {
	NotificationID     uuid.UUID   `json:"notificationId"`
	BoxID              uuid.UUID   `json:"boxId"`
	MessageContentType ContentType `json:"messageContentType"`
	// Message is the raw payload as received. It is stored encrypted; callers
	// only ever see plaintext.
	Message            string     `json:"message"`
	Status             Status     `json:"status"`
	CreatedDateTime    time.Time  `json:"createdDateTime"`
	ReadDateTime       *time.Time `json:"readDateTime,omitempty"`
	PushedDateTime     *time.Time `json:"pushedDateTime,omitempty"`
	RetryAfterDateTime *time.Time `json:"retryAfterDateTime,omitempty"`
}

// NewNotification creates a pending notification. A zero notificationID gets a
// server-assigned identifier.
func NewNotification(notificationID, boxID uuid.UUID, contentType ContentType, message string) *Notification {
	if notificationID == uuid.Nil {
		notificationID = uuid.New()
	}
	return &Notification{
		NotificationID:     notificationID,
		BoxID:              boxID,
		MessageContentType: contentType,
		Message:            message,
		Status:             StatusPending,
		CreatedDateTime:    time.Now().UTC(),
	}
}

// CanTransitionTo checks if a transition to the target status is valid.
// ACKNOWLEDGED and FAILED are absorbing.
func (n *Notification) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:      {StatusAcknowledged, StatusFailed},
		StatusAcknowledged: {},
		StatusFailed:       {},
	}
	allowed, ok := transitions[n.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the notification is in a terminal state.
func (n *Notification) IsTerminal() bool {
	return n.Status == StatusAcknowledged || n.Status == StatusFailed
}

// MarkAcknowledged marks the notification as acknowledged.
func (n *Notification) MarkAcknowledged() error {
	if !n.CanTransitionTo(StatusAcknowledged) {
		return ErrInvalidTransition
	}
	n.Status = StatusAcknowledged
	return nil
}

// MarkFailed marks the notification as failed after retry exhaustion.
func (n *Notification) MarkFailed() error {
	if !n.CanTransitionTo(StatusFailed) {
		return ErrInvalidTransition
	}
	n.Status = StatusFailed
	return nil
}

// RetryEligibleAt reports whether the notification may be pushed at t.
func (n *Notification) RetryEligibleAt(t time.Time) bool {
	if n.Status != StatusPending {
		return false
	}
	return n.RetryAfterDateTime == nil || !n.RetryAfterDateTime.After(t)
}

// Retryable pairs a retry-eligible notification with its box.
type Retryable struct {
	Notification *Notification
	Box          *box.Box
}

// Filter restricts notification queries. From/To are inclusive bounds on
// CreatedDateTime.
type Filter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Limit  int
}
