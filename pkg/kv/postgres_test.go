package kv

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, time.Time) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewPostgresStore(sqlx.NewDb(db, "sqlmock"))
	store.now = func() time.Time { return now }
	return store, mock, now
}

func TestPostgresGet(t *testing.T) {
	store, mock, now := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_records WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)")).
		WithArgs("users:u1", now).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"id":"u1"}`)))

	got, err := store.Get(context.Background(), "users:u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissing(t *testing.T) {
	store, mock, _ := newPostgresMock(t)

	mock.ExpectQuery("SELECT value FROM kv_records").WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "users:missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutWithTTL(t *testing.T) {
	store, mock, now := newPostgresMock(t)

	expires := now.Add(time.Hour)
	mock.ExpectExec("INSERT INTO kv_records").
		WithArgs("sessions:t", []byte("s"), expires).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Put(context.Background(), "sessions:t", []byte("s"), time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListEscapesWildcards(t *testing.T) {
	store, mock, now := newPostgresMock(t)

	mock.ExpectQuery("SELECT key FROM kv_records WHERE key LIKE").
		WithArgs(`modules:custom\_x%`, now).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("modules:custom_x1"))

	keys, err := store.List(context.Background(), "modules:custom_x")
	require.NoError(t, err)
	assert.Equal(t, []string{"modules:custom_x1"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteAndSweep(t *testing.T) {
	store, mock, now := newPostgresMock(t)

	mock.ExpectExec("DELETE FROM kv_records WHERE key").WithArgs("sessions:t").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM kv_records WHERE expires_at").WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Delete(context.Background(), "sessions:t"))
	removed, err := store.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
