// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供适配层的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 llm、translate、parse、
streaming、cache、adapter 等上层模块提供统一的类型契约。

# 核心类型

  - Message          ：对话消息（ID、Role、Content、Timestamp、可选 Media）
  - Media / ImageContent：消息附件（图片 base64 / URL，或文件引用）
  - Error / ErrorCode：结构化错误体系，含 HTTP 状态码、Retryable、Provider 标记
  - ErrorKind        ：四类错误：configuration / transport / provider / decode

# 主要能力

  - Context 传播：WithTraceID / WithRequestID / WithConversationID
  - 错误工具链：AsError / GetErrorCode / GetErrorKind / IsRetryable
  - 常用错误构造：NewConfigurationError / NewTransportError / NewProviderError / NewDecodeError
*/
package types
