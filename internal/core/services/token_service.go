package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenService struct {
	sessionRepo ports.SessionRepository
	cfg         TokenConfig
}

func NewTokenService(sessionRepo ports.SessionRepository, cfg TokenConfig) ports.TokenService {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

func (s *TokenService) IssueAccessToken(userID uuid.UUID) (string, error) {
	return s.sign(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

func (s *TokenService) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

func (s *TokenService) VerifyAccess(token string) (uuid.UUID, error) {
	return s.verify(token, s.cfg.AccessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (uuid.UUID, error) {
	return s.verify(token, s.cfg.RefreshSecret)
}

func (s *TokenService) Rotate(ctx context.Context, userID uuid.UUID) (*domain.TokenPair, error) {
	pair, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:    userID,
		TokenHash: hashToken(pair.RefreshToken),
		IssuedAt:  time.Now(),
	}
	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return pair, nil
}

func (s *TokenService) RotateFrom(ctx context.Context, userID uuid.UUID, currentRefreshToken string) (*domain.TokenPair, error) {
	pair, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	replaced, err := s.sessionRepo.Replace(ctx, userID, hashToken(currentRefreshToken), hashToken(pair.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to replace session: %w", err)
	}
	if !replaced {
		return nil, domain.ErrTokenMismatch
	}

	return pair, nil
}

func (s *TokenService) issuePair(userID uuid.UUID) (*domain.TokenPair, error) {
	accessToken, err := s.IssueAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.IssueRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *TokenService) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenStr string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return userID, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
