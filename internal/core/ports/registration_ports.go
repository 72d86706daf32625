package ports

import (
	"context"

	"github.com/clipstream/api/internal/core/domain"
)

type RegisterInput struct {
	Handle   string
	Email    string
	FullName string
	Password string
	Bio      string
	// Local paths of the uploaded files; CoverPath may be empty.
	AvatarPath string
	CoverPath  string
}

type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}
