package repository

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no rows",
			err:  pgx.ErrNoRows,
			want: ErrNotFound,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "brands_name_key"},
			want: ErrDuplicate,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "customers_type_id_fkey"},
			want: ErrReferenceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify("op", tt.err), tt.want)
		})
	}

	t.Run("other errors are wrapped", func(t *testing.T) {
		base := errors.New("boom")
		err := classify("select things", base)
		assert.ErrorIs(t, err, base)
		assert.Contains(t, err.Error(), "select things")
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.True(t, isRetryable(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.False(t, isRetryable(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.True(t, isRetryable(errors.New("dial tcp: connection refused")))
	assert.False(t, isRetryable(errors.New("invalid order state transition")))
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	r := &PostgresRepository{}
	permanent := errors.New("permanent")

	calls := 0
	err := r.withRetry(context.Background(), func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ContextCanceledDuringBackoff(t *testing.T) {
	r := &PostgresRepository{}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.withRetry(ctx, func() error {
		calls++
		cancel()
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		data, err := migrationsFS.ReadFile(f)
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", f)
		assert.Contains(t, string(data), "-- +goose Down", f)
	}
}
