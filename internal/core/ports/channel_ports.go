package ports

import (
	"context"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int, error)
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	// Subscribe is idempotent: inserting an existing edge is a no-op.
	Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error
}

type WatchHistoryRepository interface {
	// History returns denormalized entries ordered most-recent first,
	// each embedding the owning channel's summary.
	History(ctx context.Context, userID uuid.UUID) ([]domain.WatchEntry, error)
	// RecordWatch appends to the history, refreshing watched_at when the
	// video was already present.
	RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error
}

type VideoRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)
	Create(ctx context.Context, video *domain.Video) error
}

type ChannelService interface {
	Profile(ctx context.Context, viewerID *uuid.UUID, handle string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]domain.WatchEntry, error)
	RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error
	Subscribe(ctx context.Context, viewerID uuid.UUID, handle string) error
	Unsubscribe(ctx context.Context, viewerID uuid.UUID, handle string) error
}
