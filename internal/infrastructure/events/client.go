package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Actor identifies who triggered an application event. Callback updates arrive
// through a trusted upstream, so the actor is unknown here.
type Actor struct {
	ID        string `json:"id"`
	ActorType string `json:"actorType"`
}

// CallbackURIUpdated is the audit record emitted when a box's callback URL
// changes.
type CallbackURIUpdated struct {
	EventID        uuid.UUID `json:"eventId"`
	ApplicationID  string    `json:"applicationId"`
	EventDateTime  time.Time `json:"eventDateTime"`
	OldCallbackURL string    `json:"oldCallbackUrl"`
	NewCallbackURL string    `json:"newCallbackUrl"`
	BoxID          uuid.UUID `json:"boxId"`
	BoxName        string    `json:"boxName"`
	Actor          Actor     `json:"actor"`
	EventType      string    `json:"eventType"`
}

// NewCallbackURIUpdated builds the event with the fixed type tag and unknown
// actor.
func NewCallbackURIUpdated(boxID uuid.UUID, boxName, applicationID, oldURL, newURL string) *CallbackURIUpdated {
	return &CallbackURIUpdated{
		EventID:        uuid.New(),
		ApplicationID:  applicationID,
		EventDateTime:  time.Now().UTC(),
		OldCallbackURL: oldURL,
		NewCallbackURL: newURL,
		BoxID:          boxID,
		BoxName:        boxName,
		Actor:          Actor{ID: "", ActorType: "UNKNOWN"},
		EventType:      "PPNS_CALLBACK_URI_UPDATED",
	}
}

// Client talks to the external application-events sink.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("client", "application-events").Logger(),
	}
}

// EmitCallbackURIUpdated posts the audit record. The sink acknowledges with
// HTTP 201; anything else is an error for the caller to log and ignore.
func (c *Client) EmitCallbackURIUpdated(ctx context.Context, event *CallbackURIUpdated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/application-events/ppnsCallbackUriUpdated", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("event request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("events sink returned status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug().
		Str("event_id", event.EventID.String()).
		Str("box_id", event.BoxID.String()).
		Msg("callback uri updated event emitted")
	return nil
}
