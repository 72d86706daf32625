package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) ports.SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, subscriberID, channelID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	return err
}

func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	_, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	return err
}
