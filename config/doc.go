// Package config 提供 LLM 适配层的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → 环境变量 的顺序加载，
// 覆盖日志、结果缓存存储、Redis、数据库、遥测、调用超时与厂商列表。
// OpenStore 根据 cache.store 构建对应的 kv.Store 实现。
package config
