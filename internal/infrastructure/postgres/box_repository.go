package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notification-hub/notification-hub/internal/domain/box"
)

// BoxRepository implements box.Repository.
type BoxRepository struct {
	pool *pgxpool.Pool
}

func NewBoxRepository(pool *pgxpool.Pool) *BoxRepository {
	return &BoxRepository{pool: pool}
}

func (r *BoxRepository) Create(ctx context.Context, b *box.Box) (*box.Box, bool, error) {
	var subType, callbackURL *string
	var subscribedAt *time.Time
	if b.Subscriber != nil {
		t := string(b.Subscriber.Type)
		subType = &t
		callbackURL = &b.Subscriber.CallbackURL
		subscribedAt = &b.Subscriber.SubscribedOn
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO boxes (box_id, box_name, client_id, application_id, subscription_type, callback_url, subscribed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT ON CONSTRAINT boxes_client_name_key DO NOTHING
	`, b.BoxID, b.BoxName, b.BoxCreator.ClientID, b.ApplicationID, subType, callbackURL, subscribedAt)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 1 {
		return b, true, nil
	}

	existing, err := r.GetByNameAndClientID(ctx, b.BoxName, b.BoxCreator.ClientID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *BoxRepository) GetByID(ctx context.Context, boxID uuid.UUID) (*box.Box, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT box_id, box_name, client_id, application_id, subscription_type, callback_url, subscribed_at
		FROM boxes WHERE box_id=$1
	`, boxID)
	return scanBox(row)
}

func (r *BoxRepository) GetByNameAndClientID(ctx context.Context, boxName, clientID string) (*box.Box, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT box_id, box_name, client_id, application_id, subscription_type, callback_url, subscribed_at
		FROM boxes WHERE box_name=$1 AND client_id=$2
	`, boxName, clientID)
	return scanBox(row)
}

func (r *BoxRepository) UpdateSubscriber(ctx context.Context, boxID uuid.UUID, subscriber *box.Subscriber) error {
	var subType, callbackURL *string
	var subscribedAt *time.Time
	if subscriber != nil {
		t := string(subscriber.Type)
		subType = &t
		callbackURL = &subscriber.CallbackURL
		subscribedAt = &subscriber.SubscribedOn
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE boxes SET subscription_type=$1, callback_url=$2, subscribed_at=$3 WHERE box_id=$4
	`, subType, callbackURL, subscribedAt, boxID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return box.ErrNotFound
	}
	return nil
}

func scanBox(row pgx.Row) (*box.Box, error) {
	var b box.Box
	var subType, callbackURL *string
	var subscribedAt *time.Time
	if err := row.Scan(&b.BoxID, &b.BoxName, &b.BoxCreator.ClientID, &b.ApplicationID, &subType, &callbackURL, &subscribedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if subType != nil {
		sub := &box.Subscriber{Type: box.SubscriptionType(*subType)}
		if callbackURL != nil {
			sub.CallbackURL = *callbackURL
		}
		if subscribedAt != nil {
			sub.SubscribedOn = *subscribedAt
		}
		b.Subscriber = sub
	}
	return &b, nil
}
