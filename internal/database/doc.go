// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 database 为 SQL 键值存储提供 GORM 连接与连接池管理。

# 概述

[Open] 按驱动名（sqlite / postgres / mysql）构造方言并打开连接，
随后交给 [PoolManager] 统一管理连接池参数、健康检查与关闭。
sqlite 使用 glebarez 的纯 Go 实现，适合端侧单机部署。

# 核心类型

  - PoolManager：持有 GORM DB 与底层 sql.DB，提供 DB()、Ping()、Stats()、
    Close()。HealthCheckInterval 大于 0 时后台定期 Ping，Close 会等它退出。
  - PoolConfig：最大空闲/打开连接数、连接生命周期、空闲超时与健康检查间隔。
*/
package database
