package ports

import (
	"context"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/google/uuid"
)

type SessionRepository interface {
	// Upsert overwrites the stored refresh-token hash for the user,
	// creating the session row when absent.
	Upsert(ctx context.Context, session *domain.Session) error
	// Replace swaps oldHash for newHash only if oldHash is still the
	// stored value. Returns false when the compare-and-swap matched no
	// row, which means the presented token was already superseded.
	Replace(ctx context.Context, userID uuid.UUID, oldHash, newHash string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type TokenService interface {
	IssueAccessToken(userID uuid.UUID) (string, error)
	IssueRefreshToken(userID uuid.UUID) (string, error)
	VerifyAccess(token string) (uuid.UUID, error)
	VerifyRefresh(token string) (uuid.UUID, error)
	// Rotate issues a fresh pair and persists the new refresh-token hash
	// before returning. No tokens are returned when the write fails.
	Rotate(ctx context.Context, userID uuid.UUID) (*domain.TokenPair, error)
	// RotateFrom is Rotate guarded by a compare-and-swap against the
	// currently presented refresh token.
	RotateFrom(ctx context.Context, userID uuid.UUID, currentRefreshToken string) (*domain.TokenPair, error)
}

type LoginResult struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}
