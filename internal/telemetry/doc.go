// Package telemetry 封装 OpenTelemetry SDK 初始化，为适配层 Client 提供
// TracerProvider 与 MeterProvider。遥测关闭时返回 noop 实现，不连接任何外部服务；
// 通过 WithoutGlobal 可以不改动 otel 全局 Provider。
package telemetry
