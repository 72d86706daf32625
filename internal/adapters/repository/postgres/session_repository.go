package postgres

import (
	"context"
	"database/sql"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Upsert(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_hash, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token_hash = EXCLUDED.token_hash, issued_at = EXCLUDED.issued_at
	`
	_, err := r.db.ExecContext(ctx, query, session.UserID, session.TokenHash, session.IssuedAt)
	return err
}

// Replace relies on postgres single-row update atomicity: concurrent
// refreshes with the same stale token race here and exactly one wins.
func (r *SessionRepository) Replace(ctx context.Context, userID uuid.UUID, oldHash, newHash string) (bool, error) {
	query := `UPDATE sessions SET token_hash = $3, issued_at = NOW() WHERE user_id = $1 AND token_hash = $2`
	res, err := r.db.ExecContext(ctx, query, userID, oldHash, newHash)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
