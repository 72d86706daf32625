package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// In-memory fakes mirroring the postgres repositories, including the
// password-hashing hook on the user write paths.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByHandleOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, user := range r.users {
		if user.Handle == strings.ToLower(identifier) || strings.EqualFold(user.Email, identifier) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByHandle(_ context.Context, handle string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Handle == strings.ToLower(handle) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByHandleOrEmail(_ context.Context, handle, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, user := range r.users {
		if user.Handle == strings.ToLower(handle) || strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User, plainPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.ID = uuid.New()
	user.PasswordHash = string(hash)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, plainPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, fullName, bio *string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if bio != nil {
		user.Bio = *bio
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id uuid.UUID, avatarURL string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user.AvatarURL = avatarURL
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateCoverImage(_ context.Context, id uuid.UUID, coverURL string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user.CoverImageURL = coverURL
	copied := *user
	return &copied, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (r *fakeSessionRepo) Upsert(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := *session
	r.sessions[session.UserID] = &copied
	return nil
}

func (r *fakeSessionRepo) Replace(_ context.Context, userID uuid.UUID, oldHash, newHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	session, ok := r.sessions[userID]
	if !ok || session.TokenHash != oldHash {
		return false, nil
	}
	session.TokenHash = newHash
	session.IssuedAt = time.Now()
	return true, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

type edge struct {
	subscriber uuid.UUID
	channel    uuid.UUID
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	edges map[edge]time.Time
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{edges: make(map[edge]time.Time)}
}

func (r *fakeSubscriptionRepo) CountSubscribers(_ context.Context, channelID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for e := range r.edges {
		if e.channel == channelID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) CountSubscribedTo(_ context.Context, subscriberID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for e := range r.edges {
		if e.subscriber == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) IsSubscribed(_ context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[edge{subscriberID, channelID}]
	return ok, nil
}

func (r *fakeSubscriptionRepo) Subscribe(_ context.Context, subscriberID, channelID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := edge{subscriberID, channelID}
	if _, ok := r.edges[key]; !ok {
		r.edges[key] = time.Now()
	}
	return nil
}

func (r *fakeSubscriptionRepo) Unsubscribe(_ context.Context, subscriberID, channelID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, edge{subscriberID, channelID})
	return nil
}

type fakeWatchHistoryRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]domain.WatchEntry
}

func newFakeWatchHistoryRepo() *fakeWatchHistoryRepo {
	return &fakeWatchHistoryRepo{entries: make(map[uuid.UUID][]domain.WatchEntry)}
}

func (r *fakeWatchHistoryRepo) History(_ context.Context, userID uuid.UUID) ([]domain.WatchEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.WatchEntry(nil), r.entries[userID]...), nil
}

func (r *fakeWatchHistoryRepo) RecordWatch(_ context.Context, userID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = append(r.entries[userID], domain.WatchEntry{
		Video:     domain.Video{ID: videoID},
		WatchedAt: time.Now(),
	})
	return nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*domain.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*domain.Video)}
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video, ok := r.videos[id]; ok {
		copied := *video
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

// fakeMediaStore records uploads and can be told to fail specific paths.
type fakeMediaStore struct {
	mu       sync.Mutex
	uploads  []string
	failFor  map[string]error
	urlByArg map[string]string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		failFor:  make(map[string]error),
		urlByArg: make(map[string]string),
	}
}

func (m *fakeMediaStore) Store(_ context.Context, localPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, localPath)
	if err, ok := m.failFor[localPath]; ok {
		return "", err
	}
	if url, ok := m.urlByArg[localPath]; ok {
		return url, nil
	}
	return "https://media.example.com/" + localPath, nil
}
