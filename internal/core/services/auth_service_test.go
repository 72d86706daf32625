package services

import (
	"context"
	"testing"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, *fakeSessionRepo, ports.AuthService, *domain.User) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	tokens := newTestTokenService(sessions)
	svc := NewAuthService(users, sessions, tokens)

	user := &domain.User{
		Handle:    "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Example",
		AvatarURL: "https://media.example.com/alice.png",
	}
	require.NoError(t, users.Create(context.Background(), user, "correct-horse"))

	return users, sessions, svc, user
}

func TestLoginWithHandle(t *testing.T) {
	_, sessions, svc, user := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, user.ID, result.User.ID)
	assert.Empty(t, result.User.PasswordHash)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Contains(t, sessions.sessions, user.ID)
}

func TestLoginWithEmail(t *testing.T) {
	_, _, svc, user := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestLoginWrongPasswordIssuesNoTokens(t *testing.T) {
	_, sessions, svc, user := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	assert.Nil(t, result)
	assert.NotContains(t, sessions.sessions, user.ID)
}

func TestLoginMissingCredentials(t *testing.T) {
	_, _, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	_, err = svc.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	_, _, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "mallory", "pw")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	_, _, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	// Replaying the superseded token fails.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenMismatch)

	// The latest token still works.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshGarbageToken(t *testing.T) {
	_, _, svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshForDeletedUser(t *testing.T) {
	users, _, svc, user := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	users.mu.Lock()
	delete(users.users, user.ID)
	users.mu.Unlock()

	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogoutIsIdempotentAndRevokes(t *testing.T) {
	_, sessions, svc, user := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))
	assert.NotContains(t, sessions.sessions, user.ID)

	// Second logout is a no-op.
	require.NoError(t, svc.Logout(ctx, user.ID))

	// The refresh token from before logout is dead.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenMismatch)
}

func TestChangePasswordRoundTrip(t *testing.T) {
	_, _, svc, user := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "correct-horse", "battery-staple"))

	_, err := svc.Login(ctx, "alice", "battery-staple")
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestChangePasswordWrongOld(t *testing.T) {
	_, _, svc, user := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "battery-staple")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestChangePasswordKeepsSession(t *testing.T) {
	_, _, svc, user := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "correct-horse", "battery-staple"))

	// Password change does not revoke the active session.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	_, _, svc, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), uuid.New(), "old", "new")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
