package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notification-hub/notification-hub/internal/domain/client"
)

// ClientRepository implements client.Repository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Insert(ctx context.Context, c *client.Client) (*client.Client, error) {
	secrets := make([]string, len(c.Secrets))
	for i, s := range c.Secrets {
		secrets[i] = s.Value
	}

	// On a concurrent insert of the same client the existing row wins.
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO clients (client_id, secrets) VALUES ($1,$2)
		ON CONFLICT (client_id) DO NOTHING
	`, c.ID, secrets)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 1 {
		return c, nil
	}
	return r.GetByID(ctx, c.ID)
}

func (r *ClientRepository) GetByID(ctx context.Context, clientID string) (*client.Client, error) {
	var secrets []string
	err := r.pool.QueryRow(ctx, `SELECT secrets FROM clients WHERE client_id=$1`, clientID).Scan(&secrets)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c := &client.Client{ID: clientID, Secrets: make([]client.Secret, len(secrets))}
	for i, s := range secrets {
		c.Secrets[i] = client.Secret{Value: s}
	}
	return c, nil
}
