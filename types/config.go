package types

// Configuration documents published per section on "config/<section>".

// SamplerConfig arrives on config/sampler.
type SamplerConfig struct {
	PeriodMs int `json:"period_ms"`
}

// ThresholdConfig arrives on config/thresholds. Values are °F hundredths.
type ThresholdConfig struct {
	LowCentiF  int32 `json:"low_centi_f"`
	HighCentiF int32 `json:"high_centi_f"`
}

// IndicatorConfig arrives on config/indicator.
type IndicatorConfig struct {
	InRangePin  int `json:"in_range_pin"`
	OutRangePin int `json:"out_range_pin"`
}
