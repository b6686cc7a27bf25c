package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupSQLiteStore(t *testing.T) *SQLStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 内存库每个连接独立，固定单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := NewSQLStore(db, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestSQLStore_Contract(t *testing.T) {
	storeContract(t, setupSQLiteStore(t))
}

func TestSQLStore_KeysEscapesWildcards(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a_b:1", "x"))
	require.NoError(t, store.Set(ctx, "axb:2", "y"))
	require.NoError(t, store.Set(ctx, "100%:3", "z"))
	require.NoError(t, store.Set(ctx, "1000:4", "w"))

	keys, err := store.Keys(ctx, "a_b:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b:1"}, keys)

	keys, err = store.Keys(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100%:3"}, keys)
}

func TestNewSQLStore_NilDB(t *testing.T) {
	_, err := NewSQLStore(nil, nil)
	assert.Error(t, err)
}

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *SQLStore) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return mock, &SQLStore{db: db, logger: zap.NewNop()}
}

func TestSQLStore_GetQueryError(t *testing.T) {
	mock, store := setupMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "llm_kv_entries"`).WillReturnError(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetNotFound(t *testing.T) {
	mock, store := setupMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "llm_kv_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"entry_key", "entry_value", "updated_at"}))

	_, err := store.Get(context.Background(), "k")
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_KeysQueryError(t *testing.T) {
	mock, store := setupMockStore(t)
	mock.ExpectQuery(`SELECT "entry_key" FROM "llm_kv_entries"`).WillReturnError(errors.New("timeout"))

	_, err := store.Keys(context.Background(), "llm:cache:")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SetError(t *testing.T) {
	_, store := setupMockStore(t)
	// 未设置期望，任何写入都会失败
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}
