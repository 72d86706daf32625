package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("username or email and password are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("invalid password")

	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenMismatch = errors.New("refresh token is superseded or revoked")

	ErrMissingFields  = errors.New("all required fields must be provided")
	ErrDuplicateUser  = errors.New("user with this username or email already exists")
	ErrAvatarRequired = errors.New("avatar file is required")
	ErrAvatarUpload   = errors.New("failed to upload avatar")
	ErrUserPersist    = errors.New("failed to persist user")

	ErrMissingHandle   = errors.New("channel handle is required")
	ErrChannelNotFound = errors.New("channel not found")
	ErrSelfSubscribe   = errors.New("cannot subscribe to own channel")
	ErrVideoNotFound   = errors.New("video not found")

	ErrInternal = errors.New("internal server error")
)
