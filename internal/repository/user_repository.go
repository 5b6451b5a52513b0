package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const (
	userIndexKey  = "users:index"
	userKeyPrefix = "users:"
)

// UserRepository stores accounts under users:{id} and keeps users:index in step.
type UserRepository struct {
	records recordStore
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store kv.Store) *UserRepository {
	return &UserRepository{records: recordStore{store: store}}
}

// IndexExists reports whether the users:index record has ever been written.
func (r *UserRepository) IndexExists(ctx context.Context) (bool, error) {
	var index []models.UserIndexEntry
	if err := r.records.get(ctx, userIndexKey, &index); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Index returns the username index.
func (r *UserRepository) Index(ctx context.Context) ([]models.UserIndexEntry, error) {
	var index []models.UserIndexEntry
	if err := r.records.get(ctx, userIndexKey, &index); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []models.UserIndexEntry{}, nil
		}
		return nil, err
	}
	return index, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.records.get(ctx, userKeyPrefix+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername resolves a normalised username through the index.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	norm := models.NormalizeUsername(username)
	for _, entry := range index {
		if entry.Username == norm {
			return r.FindByID(ctx, entry.ID)
		}
	}
	return nil, kv.ErrNotFound
}

// List returns every indexed user in index order, skipping dangling entries.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(index))
	for _, entry := range index {
		user, err := r.FindByID(ctx, entry.ID)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// Save writes the user record and upserts its index entry.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("save user: missing id")
	}
	if err := r.records.put(ctx, userKeyPrefix+user.ID, user, 0); err != nil {
		return err
	}

	index, err := r.Index(ctx)
	if err != nil {
		return err
	}
	entry := models.UserIndexEntry{ID: user.ID, Username: user.Username}
	replaced := false
	for i := range index {
		if index[i].ID == user.ID {
			index[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		index = append(index, entry)
	}
	return r.records.put(ctx, userIndexKey, index, 0)
}

// SaveIndex overwrites the index. Seeding uses it to write every entry at once.
func (r *UserRepository) SaveIndex(ctx context.Context, index []models.UserIndexEntry) error {
	if index == nil {
		index = []models.UserIndexEntry{}
	}
	return r.records.put(ctx, userIndexKey, index, 0)
}

// SaveRecord writes only the users:{id} record.
func (r *UserRepository) SaveRecord(ctx context.Context, user *models.User) error {
	return r.records.put(ctx, userKeyPrefix+user.ID, user, 0)
}

// Delete removes the record and its index entry.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	index, err := r.Index(ctx)
	if err != nil {
		return err
	}
	filtered := index[:0]
	for _, entry := range index {
		if entry.ID != id {
			filtered = append(filtered, entry)
		}
	}
	if err := r.records.put(ctx, userIndexKey, filtered, 0); err != nil {
		return err
	}
	return r.records.delete(ctx, userKeyPrefix+id)
}
