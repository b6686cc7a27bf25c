package kv

import (
	"context"
	"errors"
)

// Store 是持久化键值存储协作者：string → string。
// 适配层只通过它读写缓存条目，从不假设具体后端。
type Store interface {
	// Get 返回键对应的值；不存在时返回 ErrNotFound。
	Get(ctx context.Context, key string) (string, error)
	// Set 无条件覆盖写入。
	Set(ctx context.Context, key, value string) error
	// Delete 删除键，键不存在不视为错误。
	Delete(ctx context.Context, key string) error
	// Keys 列出具有给定前缀的所有键。
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ErrNotFound 键不存在
var ErrNotFound = errors.New("kv: key not found")

// IsNotFound 判断是否为键不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
