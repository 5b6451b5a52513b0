package repository

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const (
	progressKeyPrefix = "progress:"
	attemptKeyPrefix  = "attempts:"
)

// ProgressRepository stores durable progress under progress:{userId} and
// ephemeral quiz attempts under attempts:{userId}:{moduleId}.
type ProgressRepository struct {
	records recordStore
}

// NewProgressRepository constructs a progress repository.
func NewProgressRepository(store kv.Store) *ProgressRepository {
	return &ProgressRepository{records: recordStore{store: store}}
}

// Get returns the user's progress, empty when nothing has been recorded.
func (r *ProgressRepository) Get(ctx context.Context, userID string) (models.Progress, error) {
	progress := models.Progress{}
	if err := r.records.get(ctx, progressKeyPrefix+userID, &progress); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return models.Progress{}, nil
		}
		return nil, err
	}
	if progress == nil {
		progress = models.Progress{}
	}
	return progress, nil
}

// Save replaces the user's progress record.
func (r *ProgressRepository) Save(ctx context.Context, userID string, progress models.Progress) error {
	return r.records.put(ctx, progressKeyPrefix+userID, progress, 0)
}

// Delete drops the user's progress record.
func (r *ProgressRepository) Delete(ctx context.Context, userID string) error {
	return r.records.delete(ctx, progressKeyPrefix+userID)
}

// SaveAttempt stores an attempt, replacing any earlier one for the same module.
func (r *ProgressRepository) SaveAttempt(ctx context.Context, attempt *models.QuizAttempt, ttl time.Duration) error {
	return r.records.put(ctx, attemptKey(attempt.UserID, attempt.ModuleID), attempt, ttl)
}

// FindAttempt returns the in-flight attempt or kv.ErrNotFound.
func (r *ProgressRepository) FindAttempt(ctx context.Context, userID, moduleID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := r.records.get(ctx, attemptKey(userID, moduleID), &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// DeleteAttempt clears the attempt for one module.
func (r *ProgressRepository) DeleteAttempt(ctx context.Context, userID, moduleID string) error {
	return r.records.delete(ctx, attemptKey(userID, moduleID))
}

// DeleteAttempts clears every in-flight attempt of the user.
func (r *ProgressRepository) DeleteAttempts(ctx context.Context, userID string) error {
	keys, err := r.records.list(ctx, attemptKeyPrefix+userID+":")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := r.records.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func attemptKey(userID, moduleID string) string {
	return attemptKeyPrefix + userID + ":" + moduleID
}
