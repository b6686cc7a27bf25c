// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 streaming 把厂商流式响应的任意切分字节块还原为累计文本。

# 概述

[Decoder] 是一个三态状态机：Accumulating → Done | Errored，终态不可逆，
进入终态后 Feed / Finish / Fail 都是空操作。每收到一段增量文本，
OnUpdate 回调会收到当前累计内容；进入 Done 时 OnDone 恰好触发一次。

# 方言

切分逻辑由 [Dialect] 承担，约定与 bufio.SplitFunc 相同：

  - [SSE]：空行分隔的 data: 事件，[DONE] 结束，按 JSON 路径提取增量。
  - [TypedEvent]：Anthropic 的类型化事件流。
  - [Generic]：自定义端点的尽力而为解析。

[DialectFor] 按 Provider 选择方言。

# 容错

单个无法解码的事件只计数并跳过；只有 EOF 处的尾事件损坏，
或整条流只有解码错误而没有任何内容时，才进入 Errored。
*/
package streaming
