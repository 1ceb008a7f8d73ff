package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	return b.tx, nil
}

func TestDoSerializableCommits(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestDoRollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)
	want := errors.New("slot taken")

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestDoReadOnlyUsesSnapshotIsolation(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	require.NoError(t, manager.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	assert.True(t, beginner.opts.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, beginner.opts.Isolation)
}

func TestNestedCallsReuseTransaction(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return manager.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}

func TestSerializationFailuresAreClassified(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("insert appointment: %w", &pq.Error{Code: "40001"})
	})
	assert.ErrorIs(t, err, ErrSerialization)

	beginner.tx = &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	err = manager.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrSerialization)

	beginner.tx = &fakeTx{commitErr: errors.New("connection reset")}
	err = manager.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommit)

	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
}

func TestDoSerializableUnwrapsRepositoryErrors(t *testing.T) {
	execQuery := errors.New("appointment.repository: failed to execute query")

	tests := []struct {
		name    string
		fnErr   error
		wantErr error
	}{
		{
			name:    "serialization failure behind repository wrap",
			fnErr:   fmt.Errorf("%w: CreateAppointment - execute insert: %w", execQuery, &pq.Error{Code: "40001"}),
			wantErr: ErrSerialization,
		},
		{
			name:    "deadlock behind double wrap",
			fnErr:   fmt.Errorf("failed to create appointment: %w", fmt.Errorf("%w: LockByIDs - execute query: %w", execQuery, &pq.Error{Code: "40P01"})),
			wantErr: ErrSerialization,
		},
		{
			name:    "unique violation stays as is",
			fnErr:   fmt.Errorf("%w: CreateAppointment - execute insert: %w", execQuery, &pq.Error{Code: "23505"}),
			wantErr: execQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beginner := &fakeBeginner{tx: &fakeTx{}}
			manager := NewTransactionManager(beginner)

			err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
				return tt.fnErr
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, beginner.tx.rolledBack)
			assert.False(t, beginner.tx.committed)

			var pqErr *pq.Error
			assert.True(t, errors.As(err, &pqErr))
		})
	}
}
