package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/repository"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)}
}

func newSessionFixture(t *testing.T) (*SessionService, *testClock) {
	t.Helper()
	clock := newTestClock()
	store := kv.NewMemoryStore().WithClock(clock.Now)
	svc := NewSessionService(repository.NewSessionRepository(store), zap.NewNop(), SessionConfig{TTL: 7 * 24 * time.Hour, RotateAfter: 30 * time.Minute})
	svc.now = clock.Now
	return svc, clock
}

func TestSessionCreateAndLookup(t *testing.T) {
	svc, _ := newSessionFixture(t)
	ctx := context.Background()

	session, err := svc.Create(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, session.Token, 43)

	found, err := svc.Lookup(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	other, err := svc.Create(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, other.Token)
}

func TestSessionLookupUnknownToken(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, err := svc.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	svc, clock := newSessionFixture(t)
	ctx := context.Background()
	session, err := svc.Create(ctx, "u1")
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour + time.Second)

	_, err = svc.Lookup(ctx, session.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionRotateOnlyAfterThreshold(t *testing.T) {
	svc, clock := newSessionFixture(t)
	ctx := context.Background()
	session, err := svc.Create(ctx, "u1")
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	rotated, err := svc.Rotate(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, rotated)

	clock.Advance(25 * time.Minute)
	rotated, err = svc.Rotate(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, rotated)
	assert.NotEqual(t, session.Token, rotated.Token)
	assert.Equal(t, session.CreatedAt, rotated.CreatedAt)
	assert.Equal(t, clock.Now(), rotated.LastRotatedAt)

	_, err = svc.Lookup(ctx, session.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	found, err := svc.Lookup(ctx, rotated.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)
}

func TestSessionRotationDoesNotExtendLifetime(t *testing.T) {
	svc, clock := newSessionFixture(t)
	ctx := context.Background()
	session, err := svc.Create(ctx, "u1")
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour - time.Hour)
	rotated, err := svc.Rotate(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, rotated)

	clock.Advance(time.Hour + time.Second)
	_, err = svc.Lookup(ctx, rotated.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionDeleteIsIdempotent(t *testing.T) {
	svc, _ := newSessionFixture(t)
	ctx := context.Background()
	session, err := svc.Create(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, session.Token))
	require.NoError(t, svc.Delete(ctx, session.Token))
	require.NoError(t, svc.Delete(ctx, ""))

	_, err = svc.Lookup(ctx, session.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
