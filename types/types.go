package types

// ---- Bus payloads ----

// ReadingValue is published (retained) on temp/reading after every sample.
type ReadingValue struct {
	CentiF Temp  `json:"centi_f"`
	TsMs   int64 `json:"ts_ms"`
}

// RangeValue is published (retained) on temp/range. Valid is false when the
// sensor produced a 0.00 reading, which the classifier treats as "no data";
// a legitimate 0.00°F reading is indistinguishable from no reading
// (documented quirk, preserved).
type RangeValue struct {
	InRange bool  `json:"in_range"`
	Valid   bool  `json:"valid"`
	TsMs    int64 `json:"ts_ms"`
}

// ResetDone is published on sys/reset/done after a factory reset completed.
type ResetDone struct {
	TsMs int64 `json:"ts_ms"`
}

// BannerRequest is published on sys/banner when a diagnostic banner print
// has been asked for (opcode or button glue).
type BannerRequest struct {
	TsMs int64 `json:"ts_ms"`
}

// SvcState is the retained per-service state document (e.g. sampler/state).
type SvcState struct {
	Level  string `json:"level"`  // "idle", "ready", "error", "stopped"
	Status string `json:"status"` // freeform short code
	TsMs   int64  `json:"ts_ms"`
}
