// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 cache 提供 LLM 非流式结果的 TTL 缓存，建立在 kv.Store 之上。

# 键

Key 对 {role, content} 序列以及 provider、model、endpoint 做 SHA-256，
取前 16 字节十六进制并加上 "llm:cache:" 前缀。消息 ID 与时间戳不参与计算，
因此重发相同对话会命中同一条目。

# 条目

每条记录以 JSON 保存 {key, data, timestamp, ttl}，时间单位为毫秒。
timestamp+ttl < now 即视为过期：Get 时惰性删除，ClearExpired 批量清理，
StartSweeper 按固定间隔在后台执行 ClearExpired。

# 失败语义

存储读取失败按未命中处理，写入失败只返回错误由调用方记录日志，
缓存从不使一次 LLM 调用失败。
*/
package cache
