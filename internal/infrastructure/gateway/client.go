package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ForwardedHeader is a header the gateway passes through verbatim to the
// customer's callback.
type ForwardedHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OutboundNotification is the wire shape of a push handed to the gateway.
type OutboundNotification struct {
	DestinationURL   string            `json:"destinationUrl"`
	ForwardedHeaders []ForwardedHeader `json:"forwardedHeaders"`
	Payload          string            `json:"payload"`
}

// CallbackValidationResult is the gateway's answer to a callback probe.
type CallbackValidationResult struct {
	Successful   bool   `json:"successful"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type notifyResponse struct {
	Successful bool `json:"successful"`
}

// Client talks to the external push gateway that performs outbound HTTPS calls
// to customer callbacks and probes candidate callback URLs.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
	logger    zerolog.Logger
}

func NewClient(baseURL, authToken string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		http:      &http.Client{Timeout: timeout},
		logger:    logger.With().Str("client", "push-gateway").Logger(),
	}
}

// Notify asks the gateway to deliver one outbound notification. The returned
// bool mirrors the gateway's declared outcome; transport and decode problems
// come back as errors for the caller to classify.
func (c *Client) Notify(ctx context.Context, out OutboundNotification) (bool, error) {
	var resp notifyResponse
	if err := c.post(ctx, "/notify", out, &resp); err != nil {
		return false, err
	}
	c.logger.Debug().
		Str("destination_url", out.DestinationURL).
		Bool("successful", resp.Successful).
		Msg("gateway notify completed")
	return resp.Successful, nil
}

// ValidateCallback asks the gateway to probe a candidate callback URL.
func (c *Client) ValidateCallback(ctx context.Context, callbackURL string) (*CallbackValidationResult, error) {
	var resp CallbackValidationResult
	body := map[string]string{"callbackUrl": callbackURL}
	if err := c.post(ctx, "/validate-callback", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
