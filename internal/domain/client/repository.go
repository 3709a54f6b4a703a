package client

import "context"

// Repository defines the interface for client persistence.
type Repository interface {
	// Insert writes the client. On an ID collision the existing row wins and the
	// stored client is returned; otherwise the inserted client is returned.
	Insert(ctx context.Context, c *Client) (*Client, error)

	// GetByID returns (nil, nil) when the client is absent.
	GetByID(ctx context.Context, clientID string) (*Client, error)
}
