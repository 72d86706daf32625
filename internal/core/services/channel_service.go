package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type ChannelService struct {
	userRepo  ports.UserRepository
	subRepo   ports.SubscriptionRepository
	watchRepo ports.WatchHistoryRepository
	videoRepo ports.VideoRepository
}

func NewChannelService(
	userRepo ports.UserRepository,
	subRepo ports.SubscriptionRepository,
	watchRepo ports.WatchHistoryRepository,
	videoRepo ports.VideoRepository,
) ports.ChannelService {
	return &ChannelService{
		userRepo:  userRepo,
		subRepo:   subRepo,
		watchRepo: watchRepo,
		videoRepo: videoRepo,
	}
}

func (s *ChannelService) Profile(ctx context.Context, viewerID *uuid.UUID, handle string) (*domain.ChannelProfile, error) {
	channel, err := s.channelByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subRepo.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}
	subscribedTo, err := s.subRepo.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	isSubscribed := false
	if viewerID != nil {
		isSubscribed, err = s.subRepo.IsSubscribed(ctx, *viewerID, channel.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check subscription: %w", err)
		}
	}

	channel.PasswordHash = ""
	return &domain.ChannelProfile{
		User:                      *channel,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

func (s *ChannelService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]domain.WatchEntry, error) {
	entries, err := s.watchRepo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch history: %w", err)
	}
	if entries == nil {
		entries = []domain.WatchEntry{}
	}
	return entries, nil
}

func (s *ChannelService) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to look up video: %w", err)
	}
	if video == nil {
		return domain.ErrVideoNotFound
	}
	if err := s.watchRepo.RecordWatch(ctx, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch: %w", err)
	}
	return nil
}

func (s *ChannelService) Subscribe(ctx context.Context, viewerID uuid.UUID, handle string) error {
	channel, err := s.channelByHandle(ctx, handle)
	if err != nil {
		return err
	}
	if channel.ID == viewerID {
		return domain.ErrSelfSubscribe
	}
	if err := s.subRepo.Subscribe(ctx, viewerID, channel.ID); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

func (s *ChannelService) Unsubscribe(ctx context.Context, viewerID uuid.UUID, handle string) error {
	channel, err := s.channelByHandle(ctx, handle)
	if err != nil {
		return err
	}
	if err := s.subRepo.Unsubscribe(ctx, viewerID, channel.ID); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

func (s *ChannelService) channelByHandle(ctx context.Context, handle string) (*domain.User, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if handle == "" {
		return nil, domain.ErrMissingHandle
	}
	channel, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to look up channel: %w", err)
	}
	if channel == nil {
		return nil, domain.ErrChannelNotFound
	}
	return channel, nil
}
