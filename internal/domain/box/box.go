package box

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SubscriptionType identifies how a box's subscriber consumes notifications.
type SubscriptionType string

const (
	SubscriptionPush SubscriptionType = "API_PUSH_SUBSCRIBER"
	SubscriptionPull SubscriptionType = "API_PULL_SUBSCRIBER"
)

var (
	ErrNotFound     = errors.New("box not found")
	ErrUnauthorized = errors.New("clientId does not match boxCreator")
)

// Creator identifies the owner of a box.
type Creator struct {
	ClientID string `json:"clientId"`
}

// Subscriber is the consumer binding of a box. A box has at most one subscriber,
// either push (hub calls out to CallbackURL) or pull (consumer polls).
type Subscriber struct {
	Type         SubscriptionType `json:"subscriptionType"`
	CallbackURL  string           `json:"callBackUrl"`
	SubscribedOn time.Time        `json:"subscribedDateTime"`
}

// IsValidPush reports whether the subscriber is a push subscriber with a
// non-empty callback URL.
func (s *Subscriber) IsValidPush() bool {
	return s != nil && s.Type == SubscriptionPush && s.CallbackURL != ""
}

// Box is a named mailbox owned by a client; the unit of subscription and the
// destination of publishes.
type Box struct {
	BoxID         uuid.UUID   `json:"boxId"`
	BoxName       string      `json:"boxName"`
	BoxCreator    Creator     `json:"boxCreator"`
	ApplicationID *string     `json:"applicationId,omitempty"`
	Subscriber    *Subscriber `json:"subscriber,omitempty"`
}

// NewBox creates a box with a server-assigned identifier and no subscriber.
func NewBox(boxName, clientID string) *Box {
	return &Box{
		BoxID:      uuid.New(),
		BoxName:    boxName,
		BoxCreator: Creator{ClientID: clientID},
	}
}

// OwnedBy reports whether clientID matches the box creator.
func (b *Box) OwnedBy(clientID string) bool {
	return b.BoxCreator.ClientID == clientID
}

// CallbackURL returns the push callback URL, or "" for pull-only boxes.
func (b *Box) CallbackURL() string {
	if b.Subscriber == nil {
		return ""
	}
	return b.Subscriber.CallbackURL
}

// HasValidPushSubscriber reports whether pushes should be attempted for the box.
func (b *Box) HasValidPushSubscriber() bool {
	return b.Subscriber.IsValidPush()
}
