// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供适配层测试的共享工具和辅助函数。

# 概述

testutil 包为各包的单元测试提供统一的辅助能力，
避免各包重复实现相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertNotContainsSecret
  - 异步断言: AssertEventuallyTrue
  - 数据工具: Conversation
  - 流式辅助: SplitEvery / UpdateRecorder

# 子包

  - testutil/mocks: MockUpstream，基于 httptest 的假厂商服务，
    支持固定响应、SSE 分块、延迟与状态码注入，并记录每次请求
  - testutil/fixtures: 各厂商响应体与流式事件样例

# 使用示例

	up := mocks.NewMockUpstream(t).WithJSON(fixtures.OpenAIResponse("hi"))
	resp := client.Send(testutil.TestContext(t), msgs, up.Config(llm.ProviderOpenAI), llm.RequestOptions{})
*/
package testutil
