package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	ops  []string
	errs []error
}

func (o *recordingObserver) ObserveKVOperation(op string, _ time.Duration, err error) {
	o.ops = append(o.ops, op)
	o.errs = append(o.errs, err)
}

func TestInstrumentReportsOperations(t *testing.T) {
	ctx := context.Background()
	observer := &recordingObserver{}
	store := Instrument(NewMemoryStore(), observer)

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))
	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.List(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Ping(ctx))

	assert.Equal(t, []string{"put", "get", "list", "delete"}, observer.ops)
	assert.ErrorIs(t, observer.errs[1], ErrNotFound)
}

func TestInstrumentWithoutObserver(t *testing.T) {
	base := NewMemoryStore()
	assert.Same(t, base, Instrument(base, nil))
}
