package llm

// Capabilities 描述 Provider 支持的能力。
type Capabilities struct {
	Streaming     bool `json:"streaming" yaml:"streaming"`
	Multimodal    bool `json:"multimodal" yaml:"multimodal"`
	HighResImages bool `json:"high_res_images" yaml:"high_res_images"`
}

var capabilityTable = map[ProviderID]Capabilities{
	ProviderOpenAI:    {Streaming: true, Multimodal: true, HighResImages: true},
	ProviderAzure:     {Streaming: true, Multimodal: true, HighResImages: true},
	ProviderGemini:    {Streaming: true, Multimodal: true, HighResImages: true},
	ProviderXAI:       {Streaming: true, Multimodal: true, HighResImages: true},
	ProviderAnthropic: {Streaming: true, Multimodal: true},
	ProviderMistral:   {Streaming: true, Multimodal: true},
	ProviderQwen:      {Streaming: true, Multimodal: true},
	ProviderZhipu:     {Streaming: true, Multimodal: true},
	ProviderDoubao:    {Streaming: true, Multimodal: true},
	ProviderBaidu:     {Streaming: true},
	ProviderMiniMax:   {Streaming: true},
	ProviderDeepSeek:  {Streaming: true},
	ProviderMoonshot:  {Streaming: true},
	ProviderHunyuan:   {Streaming: true},
	ProviderOllama:    {Streaming: true},
}

// CapabilitiesOf 是 Provider 枚举上的全函数；custom 及未知值全部为 false。
func CapabilitiesOf(p ProviderID) Capabilities {
	return capabilityTable[p]
}
