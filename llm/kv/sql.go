package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry 是 SQL 存储中的一行。列名避开 MySQL 保留字 key/value。
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:255"`
	Value     string    `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (Entry) TableName() string { return "llm_kv_entries" }

// SQLStore 基于 GORM 的 Store 实现，支持 sqlite / postgres / mysql。
type SQLStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSQLStore 创建 SQL 存储并自动迁移表结构。
func NewSQLStore(db *gorm.DB, logger *zap.Logger) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &SQLStore{
		db:     db,
		logger: logger.With(zap.String("component", "kv_sql")),
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sql get failed: %w", err)
	}
	return e.Value, nil
}

// Set 以 upsert 覆盖写入
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("sql set failed: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("sql delete failed: %w", err)
	}
	return nil
}

func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("entry_key LIKE ? ESCAPE '!'", escapeLike(prefix)+"%").
		Order("entry_key").
		Pluck("entry_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("sql keys failed: %w", err)
	}
	return keys, nil
}

// escapeLike 以 '!' 为转义符，三种方言写法一致
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
