package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, handle, email, full_name, password_hash, bio, avatar_url, cover_image_url, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByHandleOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE handle = LOWER($1) OR LOWER(email) = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE handle = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, handle))
}

func (r *UserRepository) ExistsByHandleOrEmail(ctx context.Context, handle, email string) (bool, error) {
	query := `SELECT 1 FROM users WHERE handle = LOWER($1) OR LOWER(email) = LOWER($2) LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, handle, email).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, plainPassword string) error {
	hash, err := hashPassword(plainPassword)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (handle, email, full_name, password_hash, bio, avatar_url, cover_image_url)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		user.Handle, user.Email, user.FullName, hash, user.Bio, user.AvatarURL, user.CoverImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, plainPassword string) error {
	hash, err := hashPassword(plainPassword)
	if err != nil {
		return err
	}
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err = r.db.ExecContext(ctx, query, id, hash)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, bio *string) (*domain.User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    bio = COALESCE($3, bio),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, fullName, bio))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*domain.User, error) {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, avatarURL))
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, coverURL string) (*domain.User, error) {
	query := `UPDATE users SET cover_image_url = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, coverURL))
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Handle,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Bio,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
