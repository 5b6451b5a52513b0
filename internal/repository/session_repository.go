package repository

import (
	"context"
	"time"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const sessionKeyPrefix = "sessions:"

// SessionRepository persists opaque sessions with a store-enforced expiry.
type SessionRepository struct {
	records recordStore
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(store kv.Store) *SessionRepository {
	return &SessionRepository{records: recordStore{store: store}}
}

// Save stores the session for ttl.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return r.records.put(ctx, sessionKeyPrefix+session.Token, session, ttl)
}

// Find returns the session or kv.ErrNotFound.
func (r *SessionRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.records.get(ctx, sessionKeyPrefix+token, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the session. Absent tokens are ignored.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.records.delete(ctx, sessionKeyPrefix+token)
}
