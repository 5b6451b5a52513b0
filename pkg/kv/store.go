// Package kv defines the key-value port every durable record goes through,
// together with its memory, Redis and PostgreSQL drivers.
//
// Records are whole JSON documents under single keys. The port offers no
// multi-key transactions; callers read, merge and write back.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value collaborator.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value under key. A ttl <= 0 stores without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns the live keys starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
}
