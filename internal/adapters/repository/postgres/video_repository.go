package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) ports.VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	query := `
		SELECT id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at
		FROM videos WHERE id = $1
	`
	video := &domain.Video{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return video, nil
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (owner_id, title, description, video_url, thumbnail_url, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, views, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL, video.Duration, video.IsPublished,
	).Scan(&video.ID, &video.Views, &video.CreatedAt)
}
