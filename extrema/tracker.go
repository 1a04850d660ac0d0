package extrema

import (
	"sync"

	"tempreader-go/types"
	"tempreader-go/x/mathx"
)

// Session sentinels: the high starts below and the low above anything the
// sensor can produce, so the first real reading beats them.
const (
	SessionHighInit = types.Temp(-10000) // -100.00
	SessionLowInit  = types.Temp(25500)  // 255.00
)

// Factory-reset record defaults. ResetLow (254.00) is deliberately not the
// same constant as SessionLowInit (255.00); the discrepancy predates this
// implementation and is preserved.
const (
	ResetHigh = types.Temp(0)
	ResetLow  = types.Temp(25400)
)

// Default in-range thresholds (°F), overridable via config/thresholds.
const (
	DefaultLowLimit  = types.Temp(5000) // 50.00
	DefaultHighLimit = types.Temp(8000) // 80.00
)

// Tracker keeps the session extrema and a cache of the persisted all-time
// records, persisting a new record only when a session extreme beats the
// cached persisted value. The sampler goroutine writes via Observe; the
// command service reads via the accessors.
type Tracker struct {
	mu    sync.Mutex
	store *Store

	sessionHigh types.Temp
	sessionLow  types.Temp

	persistedHigh types.Temp
	persistedLow  types.Temp

	current types.Temp

	lowLimit  types.Temp
	highLimit types.Temp
}

// NewTracker loads the persisted records through the store. Fresh storage
// yields whatever garbage pre-exists until the first factory reset.
func NewTracker(store *Store) *Tracker {
	return &Tracker{
		store:         store,
		sessionHigh:   SessionHighInit,
		sessionLow:    SessionLowInit,
		persistedHigh: store.Read(SlotHigh),
		persistedLow:  store.Read(SlotLow),
		lowLimit:      DefaultLowLimit,
		highLimit:     DefaultHighLimit,
	}
}

// Observe feeds one new reading through the extremum logic and classifies it
// against the thresholds.
//
// The low branch is an else-if: one reading cannot register as both the
// session max and min in the same cycle, matching real sensor behaviour.
//
// valid is false for a 0.00 reading, which the classifier treats as "no
// data"; a legitimate 0.00°F reading is indistinguishable from a failed one.
func (k *Tracker) Observe(t types.Temp) (inRange, valid bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.current = t

	if t > k.sessionHigh {
		k.sessionHigh = t
		if k.sessionHigh > k.persistedHigh {
			if err := k.store.Write(k.sessionHigh, SlotHigh); err == nil {
				k.persistedHigh = k.sessionHigh
			}
		}
	} else if t < k.sessionLow {
		k.sessionLow = t
		if k.sessionLow < k.persistedLow {
			if err := k.store.Write(k.sessionLow, SlotLow); err == nil {
				k.persistedLow = k.sessionLow
			}
		}
	}

	if t == 0 {
		return false, false
	}
	return mathx.Within(t, k.lowLimit, k.highLimit), true
}

// Reset restores the persisted records and session extrema to factory
// defaults. With the fixed aligned slots the store writes cannot fail, but
// the error path is kept in case slots become configurable.
func (k *Tracker) Reset() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.store.Write(ResetHigh, SlotHigh); err != nil {
		return err
	}
	if err := k.store.Write(ResetLow, SlotLow); err != nil {
		return err
	}
	k.persistedHigh = ResetHigh
	k.persistedLow = ResetLow
	k.sessionHigh = SessionHighInit
	k.sessionLow = SessionLowInit
	return nil
}

// Current returns the most recent reading (0.00 until the first sample).
func (k *Tracker) Current() types.Temp {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current
}

func (k *Tracker) SessionHigh() types.Temp {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sessionHigh
}

func (k *Tracker) SessionLow() types.Temp {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sessionLow
}

// AllTimeHigh reads the persisted high record back from storage.
func (k *Tracker) AllTimeHigh() types.Temp { return k.store.Read(SlotHigh) }

// AllTimeLow reads the persisted low record back from storage.
func (k *Tracker) AllTimeLow() types.Temp { return k.store.Read(SlotLow) }

// Limits returns the configured in-range thresholds.
func (k *Tracker) Limits() (low, high types.Temp) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lowLimit, k.highLimit
}

// SetLimits applies new thresholds (config/thresholds updates).
func (k *Tracker) SetLimits(low, high types.Temp) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lowLimit, k.highLimit = low, high
}
