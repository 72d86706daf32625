package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/sourcegraph/conc"
)

type RegistrationService struct {
	userRepo ports.UserRepository
	media    ports.MediaStore
}

func NewRegistrationService(userRepo ports.UserRepository, media ports.MediaStore) ports.RegistrationService {
	return &RegistrationService{
		userRepo: userRepo,
		media:    media,
	}
}

func (s *RegistrationService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	for _, field := range []string{input.Handle, input.Email, input.FullName, input.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, domain.ErrMissingFields
		}
	}

	handle := strings.ToLower(strings.TrimSpace(input.Handle))
	email := strings.TrimSpace(input.Email)

	exists, err := s.userRepo.ExistsByHandleOrEmail(ctx, handle, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateUser
	}

	if input.AvatarPath == "" {
		return nil, domain.ErrAvatarRequired
	}

	// Both uploads run concurrently. The avatar is mandatory and its
	// failure aborts registration; a failed cover upload only drops the
	// cover image.
	var (
		avatarURL string
		avatarErr error
		coverURL  string
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		avatarURL, avatarErr = s.media.Store(ctx, input.AvatarPath)
	})
	if input.CoverPath != "" {
		wg.Go(func() {
			url, err := s.media.Store(ctx, input.CoverPath)
			if err != nil {
				slog.Warn("cover image upload failed", "handle", handle, "error", err)
				return
			}
			coverURL = url
		})
	}
	wg.Wait()

	if avatarErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAvatarUpload, avatarErr)
	}

	user := &domain.User{
		Handle:        handle,
		Email:         email,
		FullName:      strings.TrimSpace(input.FullName),
		Bio:           strings.TrimSpace(input.Bio),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}
	if err := s.userRepo.Create(ctx, user, input.Password); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Re-fetch so the response reflects exactly what was stored, with
	// the password hash stripped.
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created user: %w", err)
	}
	if created == nil {
		return nil, domain.ErrUserPersist
	}
	created.PasswordHash = ""
	return created, nil
}
