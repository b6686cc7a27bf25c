// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 adapter 是多厂商 LLM 适配层的调用入口。

# 概述

[Client] 提供三个入口：[Client.Send]（非流式文本）、[Client.SendStream]
（流式文本，累计内容通过 OnUpdate 回调送出）与 [Client.SendImage]
（图片附在最后一条消息上）。三者都返回 llm.Response，所有失败都体现为
Response.Error，从不 panic，也不向调用方返回裸 error。

# 调用流程

 1. 配置校验：缺少 apiKey、endpoint 或 model 时直接返回 configuration 错误，
    不发起网络请求；能力表不支持流式或多模态时同样如此。
 2. 缓存查询：仅 EnableCache 且配置了 [WithCache] 时生效。
    图片请求从不缓存，流式请求需要额外设置 CacheStream。
 3. 通过 llm.ResolveURL 与 translate 包构造 URL 与请求体。
 4. 发送请求并与超时计时器竞争，超时触发会取消请求并关闭连接。
    流式请求在收到响应头后停止计时器。
 5. 非 2xx 响应的错误信息为 "<status> <body>"；百度与 DashScope 在 200 中的
    错误信封按 provider 错误处理；成功响应经 parse 包提取文本，流式响应交给 streaming.Decoder。

# 按配置装配

[NewFromConfig] 读取 config.Config，依次装配日志、OTel 遥测、Prometheus
指标、结果缓存（memory / redis / sql 存储及后台清理）与默认超时，
返回 Client 和按逆序释放资源的 [ShutdownFunc]。

# 可观测性

每次调用生成一个 request_id，记录一个 OTel span（llm.adapter.send），
并通过 [Recorder] 上报 Prometheus 指标。日志中的 API Key 与 URL 查询参数
都经过脱敏。
*/
package adapter
