// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的 LLM 适配层指标采集。

# 概述

Collector 通过 promauto.With 注册到调用方给定的 Registerer，
按 namespace 隔离，测试中可使用独立 Registry。

# 主要能力

  - LLM 指标：请求总数与耗时，按 provider/model/mode/status 分组；
    上游 HTTP 状态码按 2xx/3xx/4xx/5xx 归类计数。
  - 流式指标：事件数、增量数与解码错误数。
  - 缓存指标：命中、未命中与淘汰计数，按 cache_type 分组，
    满足 llm/cache.Metrics 接口。
*/
package metrics
