package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type WatchHistoryRepository struct {
	db *sql.DB
}

func NewWatchHistoryRepository(db *sql.DB) ports.WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

func (r *WatchHistoryRepository) History(ctx context.Context, userID uuid.UUID) ([]domain.WatchEntry, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at,
		       u.full_name, u.handle, u.avatar_url,
		       h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchEntry
	for rows.Next() {
		var entry domain.WatchEntry
		err := rows.Scan(
			&entry.Video.ID,
			&entry.Video.OwnerID,
			&entry.Video.Title,
			&entry.Video.Description,
			&entry.Video.VideoURL,
			&entry.Video.ThumbnailURL,
			&entry.Video.Duration,
			&entry.Video.Views,
			&entry.Video.IsPublished,
			&entry.Video.CreatedAt,
			&entry.Owner.FullName,
			&entry.Owner.Handle,
			&entry.Owner.AvatarURL,
			&entry.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *WatchHistoryRepository) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	query := `
		INSERT INTO watch_history (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, videoID)
	return err
}
