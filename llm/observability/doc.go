// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 observability 基于 OpenTelemetry 为适配层的每次调用记录 span 与指标。

# 核心类型

  - Metrics：持有 Tracer 与 Meter，StartRequest 开启 "llm.adapter.send"
    span 并增加活跃请求数，EndRequest 记录状态、耗时、错误码与缓存命中。

# 指标

  - llm.request.total / llm.error.total：按 provider、model、mode 分组。
  - llm.request.duration：请求耗时直方图，上限覆盖 90s 多模态超时。
  - llm.cache.hit.total / llm.cache.miss.total：结果缓存命中情况。
  - llm.stream.delta.total：流式调用收到的文本增量数。
  - llm.request.active：进行中的请求数。

未配置 SDK 时使用全局 noop Provider，调用方无需判空。
*/
package observability
