package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgTempReader = `{
  "sampler": {
      "period_ms": 2000
  },
  "thresholds": {
      "low_centi_f": 5000,
      "high_centi_f": 8000
  },
  "indicator": {
      "in_range_pin": 16,
      "out_range_pin": 17
  }
}`

var embeddedConfigs = map[string][]byte{
	"tempreader": []byte(cfgTempReader),
}
