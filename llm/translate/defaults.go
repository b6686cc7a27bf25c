package translate

import "github.com/a1095753788/AI-Stars-sub000/llm"

// SamplingDefaults 是未配置采样参数时的兜底值。
type SamplingDefaults struct {
	Temperature float64
	MaxTokens   int
}

var baseDefaults = SamplingDefaults{Temperature: 0.7, MaxTokens: 2048}

// 目前所有厂商共用一组默认值，按厂商覆盖时在此登记
var providerDefaults = map[llm.ProviderID]SamplingDefaults{}

// DefaultsFor 返回 Provider 的默认采样参数。
func DefaultsFor(p llm.ProviderID) SamplingDefaults {
	if d, ok := providerDefaults[p]; ok {
		return d
	}
	return baseDefaults
}

// resolveSampling 合并配置与默认值，每个分支只调用一次。
func resolveSampling(cfg llm.ProviderConfig) (float64, int) {
	d := DefaultsFor(cfg.Provider)
	temp, maxTokens := d.Temperature, d.MaxTokens
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		maxTokens = cfg.MaxTokens
	}
	return temp, maxTokens
}
