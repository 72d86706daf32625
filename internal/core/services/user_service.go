package services

import (
	"context"
	"fmt"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type UserService struct {
	repo  ports.UserRepository
	media ports.MediaStore
}

func NewUserService(repo ports.UserRepository, media ports.MediaStore) ports.UserService {
	return &UserService{
		repo:  repo,
		media: media,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, input.FullName, input.Bio)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, id uuid.UUID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, domain.ErrAvatarRequired
	}
	url, err := s.media.Store(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAvatarUpload, err)
	}
	user, err := s.repo.UpdateAvatar(ctx, id, url)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, id uuid.UUID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, domain.ErrMissingFields
	}
	url, err := s.media.Store(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload cover image: %w", err)
	}
	user, err := s.repo.UpdateCoverImage(ctx, id, url)
	if err != nil {
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}
