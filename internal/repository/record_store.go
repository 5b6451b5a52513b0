package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

// recordStore marshals whole JSON records in and out of the key-value port.
type recordStore struct {
	store kv.Store
}

// get unmarshals the record under key into dest. Absent keys return kv.ErrNotFound.
func (r recordStore) get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return kv.ErrNotFound
		}
		return fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal record %s: %w", key, err)
	}
	return nil
}

func (r recordStore) put(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

func (r recordStore) delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (r recordStore) list(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv list %s: %w", prefix, err)
	}
	return keys, nil
}
