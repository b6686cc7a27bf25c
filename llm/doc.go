// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 llm 定义多厂商适配层的核心模型：Provider 枚举、配置、能力表、
端点解析与统一响应。

# 概述

上层只面对与厂商无关的对话（[types.Message]）和一份 [ProviderConfig]。
本包负责回答三个问题：这个厂商支持什么（[CapabilitiesOf]），
请求发往哪里、如何鉴权（[ResolveURL] / [AuthHeaders]），
以及失败时如何归类（[MapHTTPError]）。

请求体翻译、响应解析、流式解码、缓存与编排分别位于子包
translate、parse、streaming、cache、adapter。

# Provider

[ProviderID] 是封闭枚举，设置中的自由文本通过 [ParseProviderID]
在边界处一次性转换，无法识别的值落到 [ProviderCustom]。

# 统一响应

[Response] 的 Error 字段为空当且仅当成功；Err 携带分类后的
[types.Error]，调用方可按 Kind 分支处理。
*/
package llm
