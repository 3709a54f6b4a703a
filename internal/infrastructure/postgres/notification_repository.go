package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
	"github.com/notification-hub/notification-hub/internal/infrastructure/cipher"
)

const ttlSettingName = "notification_ttl_seconds"

// NotificationRepository implements notification.Repository. Message bodies are
// sealed through the cipher before they touch the database; ciphertext never
// leaves this package.
type NotificationRepository struct {
	pool   *pgxpool.Pool
	cipher *cipher.MessageCipher
}

func NewNotificationRepository(pool *pgxpool.Pool, c *cipher.MessageCipher) *NotificationRepository {
	return &NotificationRepository{pool: pool, cipher: c}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) (bool, error) {
	sealed, err := r.cipher.Seal(n.Message)
	if err != nil {
		return false, err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications
		(notification_id, box_id, message_content_type, message_enc, status, created_at, read_at, pushed_at, retry_after)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, n.NotificationID, n.BoxID, n.MessageContentType, sealed, n.Status, n.CreatedDateTime, n.ReadDateTime, n.PushedDateTime, n.RetryAfterDateTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *NotificationRepository) GetByBoxIDAndFilters(ctx context.Context, boxID uuid.UUID, filter notification.Filter) ([]*notification.Notification, error) {
	query := `
		SELECT notification_id, box_id, message_content_type, message_enc, status, created_at, read_at, pushed_at, retry_after
		FROM notifications WHERE box_id=$1`
	args := []interface{}{boxID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += " AND status=$" + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += " AND created_at >= $" + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += " AND created_at <= $" + strconv.Itoa(len(args))
	}
	args = append(args, filter.Limit)
	query += " ORDER BY created_at ASC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*notification.Notification
	for rows.Next() {
		n, err := r.scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) Acknowledge(ctx context.Context, boxID uuid.UUID, notificationIDs []uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET status=$1, read_at=now()
		WHERE box_id=$2 AND notification_id = ANY($3) AND status=$4
	`, notification.StatusAcknowledged, boxID, notificationIDs, notification.StatusPending)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) UpdateStatus(ctx context.Context, notificationID uuid.UUID, status notification.Status) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET status=$1 WHERE notification_id=$2
		RETURNING notification_id, box_id, message_content_type, message_enc, status, created_at, read_at, pushed_at, retry_after
	`, status, notificationID)
	return r.scanNotification(row)
}

func (r *NotificationRepository) MarkPushed(ctx context.Context, notificationID uuid.UUID, pushedAt time.Time) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET status=$1, pushed_at=$2 WHERE notification_id=$3
		RETURNING notification_id, box_id, message_content_type, message_enc, status, created_at, read_at, pushed_at, retry_after
	`, notification.StatusAcknowledged, pushedAt, notificationID)
	return r.scanNotification(row)
}

func (r *NotificationRepository) UpdateRetryAfter(ctx context.Context, notificationID uuid.UUID, retryAfter time.Time) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET retry_after=$1 WHERE notification_id=$2
		RETURNING notification_id, box_id, message_content_type, message_enc, status, created_at, read_at, pushed_at, retry_after
	`, retryAfter, notificationID)
	return r.scanNotification(row)
}

func (r *NotificationRepository) StreamRetryable(ctx context.Context, batchSize int, fn func(*notification.Retryable) error) error {
	var lastID int64
	for {
		batch, nextID, err := r.fetchRetryableWindow(ctx, lastID, batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for _, item := range batch {
			if err := fn(item); err != nil {
				return err
			}
		}
		lastID = nextID
	}
}

// fetchRetryableWindow reads one keyset page and fully drains the rows before
// returning, so the connection is released while the consumer pushes.
func (r *NotificationRepository) fetchRetryableWindow(ctx context.Context, afterID int64, limit int) ([]*notification.Retryable, int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.notification_id, n.box_id, n.message_content_type, n.message_enc, n.status, n.created_at, n.read_at, n.pushed_at, n.retry_after,
		       b.box_id, b.box_name, b.client_id, b.application_id, b.subscription_type, b.callback_url, b.subscribed_at
		FROM notifications n
		JOIN boxes b ON b.box_id = n.box_id
		WHERE n.id > $1
		  AND n.status = $2
		  AND (n.retry_after IS NULL OR n.retry_after <= now())
		  AND b.subscription_type = $3
		  AND b.callback_url IS NOT NULL AND b.callback_url <> ''
		ORDER BY n.id ASC
		LIMIT $4
	`, afterID, notification.StatusPending, box.SubscriptionPush, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*notification.Retryable
	var lastID int64
	for rows.Next() {
		var id int64
		var n notification.Notification
		var sealed []byte
		var b box.Box
		var subType, callbackURL *string
		var subscribedAt *time.Time
		if err := rows.Scan(
			&id, &n.NotificationID, &n.BoxID, &n.MessageContentType, &sealed, &n.Status, &n.CreatedDateTime, &n.ReadDateTime, &n.PushedDateTime, &n.RetryAfterDateTime,
			&b.BoxID, &b.BoxName, &b.BoxCreator.ClientID, &b.ApplicationID, &subType, &callbackURL, &subscribedAt,
		); err != nil {
			return nil, 0, err
		}
		msg, err := r.cipher.Open(sealed)
		if err != nil {
			return nil, 0, err
		}
		n.Message = msg
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
		out = append(out, &notification.Retryable{Notification: &n, Box: &b})
		lastID = id
	}
	return out, lastID, rows.Err()
}

func (r *NotificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM store_settings WHERE name=$1`, ttlSettingName).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE created_at <= now() - make_interval(secs => $1)
	`, seconds)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) EnsureTTL(ctx context.Context, ttl time.Duration) error {
	value := strconv.FormatInt(int64(ttl.Seconds()), 10)
	// Replaces a stale declaration when configuration changed since last start.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO store_settings (name, value) VALUES ($1,$2)
		ON CONFLICT (name) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
		WHERE store_settings.value <> EXCLUDED.value
	`, ttlSettingName, value)
	return err
}

func (r *NotificationRepository) scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var sealed []byte
	if err := row.Scan(&n.NotificationID, &n.BoxID, &n.MessageContentType, &sealed, &n.Status, &n.CreatedDateTime, &n.ReadDateTime, &n.PushedDateTime, &n.RetryAfterDateTime); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	msg, err := r.cipher.Open(sealed)
	if err != nil {
		return nil, err
	}
	n.Message = msg
	return &n, nil
}
