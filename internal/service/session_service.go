package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

type sessionRepository interface {
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Find(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionConfig bounds session lifetime and rotation.
type SessionConfig struct {
	TTL         time.Duration
	RotateAfter time.Duration
}

// SessionService issues, resolves and rotates opaque session tokens.
// Lifetime is measured from login; rotation never extends it.
type SessionService struct {
	repo   sessionRepository
	logger *zap.Logger
	config SessionConfig
	now    func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(repo sessionRepository, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 7 * 24 * time.Hour
	}
	if config.RotateAfter <= 0 {
		config.RotateAfter = 30 * time.Minute
	}
	return &SessionService{repo: repo, logger: logger, config: config, now: func() time.Time { return time.Now().UTC() }}
}

// TTL is the full session lifetime.
func (s *SessionService) TTL() time.Duration { return s.config.TTL }

// Create issues a new session for the user.
func (s *SessionService) Create(ctx context.Context, userID string) (*models.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create session token")
	}
	now := s.now()
	session := &models.Session{Token: token, UserID: userID, CreatedAt: now, LastRotatedAt: now}
	if err := s.repo.Save(ctx, session, s.config.TTL); err != nil {
		return nil, appErrors.Internal(err, "failed to persist session")
	}
	return session, nil
}

// Lookup resolves a token. Absent, expired or blank tokens are Unauthorized.
func (s *SessionService) Lookup(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized
	}
	session, err := s.repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Internal(err, "failed to load session")
	}
	if s.remaining(session) <= 0 {
		s.discard(ctx, token)
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}
	return session, nil
}

// Rotate replaces the session with a fresh token once RotateAfter has elapsed
// since the last rotation. It returns nil when no rotation was due.
// The new record is written before the old one is deleted.
func (s *SessionService) Rotate(ctx context.Context, session *models.Session) (*models.Session, error) {
	now := s.now()
	if now.Sub(session.LastRotatedAt) < s.config.RotateAfter {
		return nil, nil
	}
	remaining := s.remaining(session)
	if remaining <= 0 {
		s.discard(ctx, session.Token)
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create session token")
	}
	rotated := &models.Session{Token: token, UserID: session.UserID, CreatedAt: session.CreatedAt, LastRotatedAt: now}
	if err := s.repo.Save(ctx, rotated, remaining); err != nil {
		return nil, appErrors.Internal(err, "failed to persist rotated session")
	}
	s.discard(ctx, session.Token)
	return rotated, nil
}

// Delete removes a session. Unknown tokens are not an error.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return appErrors.Internal(err, "failed to delete session")
	}
	return nil
}

func (s *SessionService) remaining(session *models.Session) time.Duration {
	return session.CreatedAt.Add(s.config.TTL).Sub(s.now())
}

func (s *SessionService) discard(ctx context.Context, token string) {
	if err := s.repo.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to delete session", zap.Error(err))
	}
}

// generateSessionToken returns 256 random bits, base64url encoded.
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
