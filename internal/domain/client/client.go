package client

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

var ErrNotFound = errors.New("client not found")

// Secret is an opaque signing secret.
type Secret struct {
	Value string `json:"value"`
}

// Client is an API client known to the hub. A client is created on first
// reference and never deleted.
type Client struct {
	// ID is the external identity (opaque string).
	ID string `json:"clientId"`
	// Secrets is an ordered non-empty sequence. The first element is the active
	// signing secret; the remainder are accepted during rotation windows.
	Secrets []Secret `json:"secrets"`
}

// NewClient creates a client with a single freshly generated secret.
func NewClient(clientID string) (*Client, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return nil, err
	}
	return &Client{ID: clientID, Secrets: []Secret{secret}}, nil
}

// ActiveSecret returns the current signing secret.
func (c *Client) ActiveSecret() Secret {
	return c.Secrets[0]
}

// GenerateSecret produces a random URL-safe secret with 192 bits of entropy.
func GenerateSecret() (Secret, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return Secret{}, err
	}
	return Secret{Value: base64.RawURLEncoding.EncodeToString(buf)}, nil
}
