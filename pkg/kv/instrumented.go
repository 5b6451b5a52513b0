package kv

import (
	"context"
	"time"
)

// Observer receives the timing and outcome of every store operation.
type Observer interface {
	ObserveKVOperation(op string, duration time.Duration, err error)
}

// Instrumented wraps a store so each call is reported to an Observer.
type Instrumented struct {
	Store
	observer Observer
}

// Instrument returns store unchanged when observer is nil.
func Instrument(store Store, observer Observer) Store {
	if observer == nil {
		return store
	}
	return &Instrumented{Store: store, observer: observer}
}

func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.Store.Get(ctx, key)
	s.observer.ObserveKVOperation("get", time.Since(start), err)
	return value, err
}

func (s *Instrumented) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.Store.Put(ctx, key, value, ttl)
	s.observer.ObserveKVOperation("put", time.Since(start), err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, key)
	s.observer.ObserveKVOperation("delete", time.Since(start), err)
	return err
}

func (s *Instrumented) List(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := s.Store.List(ctx, prefix)
	s.observer.ObserveKVOperation("list", time.Since(start), err)
	return keys, err
}
