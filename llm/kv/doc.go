// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package kv 定义适配层的持久化键值存储协作者 [Store]，并提供三种后端：

  - [MemoryStore]：进程内 map，测试与临时场景使用。
  - [RedisStore]：基于 go-redis，键遍历使用 SCAN。
  - [SQLStore]：基于 GORM，支持 sqlite（纯 Go）、postgres 与 mysql。

缓存层只依赖 Store 接口；存储失败由缓存层降级为未命中，不会中断请求。
*/
package kv
