package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutorPrefersTransaction(t *testing.T) {
	db := &fakeDB{}
	tx := &fakeTx{}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM services WHERE id = $1"))
	assert.Equal(t, "insert", operation("  INSERT INTO appointments (id) VALUES ($1)"))
	assert.Equal(t, "unknown", operation(""))
}

var _ TxBeginner = (*DB)(nil)
var _ TxExecutor = (*Tx)(nil)
var _ DBExecutor = (*sql.DB)(nil)
