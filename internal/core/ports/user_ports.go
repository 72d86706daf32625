package ports

import (
	"context"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByHandleOrEmail matches either field, case-insensitively.
	GetByHandleOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	ExistsByHandleOrEmail(ctx context.Context, handle, email string) (bool, error)
	// Create hashes plainPassword before the insert. Hashing lives in the
	// repository so every password write goes through the same hook.
	Create(ctx context.Context, user *domain.User, plainPassword string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, plainPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, bio *string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, coverURL string) (*domain.User, error)
}

type UpdateProfileInput struct {
	FullName *string
	Bio      *string
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, localPath string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, localPath string) (*domain.User, error)
}
