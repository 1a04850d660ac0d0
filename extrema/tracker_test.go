package extrema

import (
	"testing"

	"tempreader-go/types"
)

func trackerWithStore(t *testing.T) (*Tracker, *fakeStorage) {
	t.Helper()
	mem := newFakeStorage()
	s := NewStore(mem)
	// Start from known records rather than fresh-storage garbage.
	if err := NewTracker(s).Reset(); err != nil {
		t.Fatal(err)
	}
	return NewTracker(s), mem
}

func TestTracker_SessionHighTracksRunningMax(t *testing.T) {
	k, _ := trackerWithStore(t)

	seq := []types.Temp{6000, 6550, 7000, 6800, 7200}
	max := types.Temp(-1 << 30)
	for _, r := range seq {
		k.Observe(r)
		if r > max {
			max = r
		}
		if k.SessionHigh() != max {
			t.Fatalf("session high = %v after %v, want %v", k.SessionHigh(), r, max)
		}
	}
}

func TestTracker_PersistsOnlyBeyondPersistedRecord(t *testing.T) {
	mem := newFakeStorage()
	s := NewStore(mem)
	if err := NewTracker(s).Reset(); err != nil {
		t.Fatal(err)
	}
	// Simulate an earlier session having recorded 90.00 as the all-time high.
	if err := s.Write(types.Temp(9000), SlotHigh); err != nil {
		t.Fatal(err)
	}

	k := NewTracker(s)
	writesBefore := mem.writes

	// New session highs below the persisted record must not write.
	k.Observe(types.Temp(7000))
	k.Observe(types.Temp(8500))
	if mem.writes != writesBefore {
		t.Fatalf("persisted write for sub-record session high (%d writes)", mem.writes-writesBefore)
	}

	// Beating the persisted record writes it through.
	k.Observe(types.Temp(9100))
	if got := s.Read(SlotHigh); got != types.Temp(9100) {
		t.Fatalf("persisted high = %v, want 91.00", got)
	}

	// And the cache updates: the same value again does not rewrite.
	writesBefore = mem.writes
	k.Observe(types.Temp(9100))
	if mem.writes != writesBefore {
		t.Fatal("re-observing the record value wrote storage again")
	}
}

func TestTracker_FirstReadingIsHighNotLow(t *testing.T) {
	k, _ := trackerWithStore(t)

	// The first reading beats the high sentinel; the else-if keeps it from
	// also becoming the session low in the same cycle.
	k.Observe(types.Temp(7000))
	if k.SessionHigh() != types.Temp(7000) {
		t.Fatalf("session high = %v, want 70.00", k.SessionHigh())
	}
	if k.SessionLow() != SessionLowInit {
		t.Fatalf("session low = %v, want untouched sentinel", k.SessionLow())
	}

	// The next lower reading is the first to register as a session low.
	k.Observe(types.Temp(6500))
	if k.SessionLow() != types.Temp(6500) {
		t.Fatalf("session low = %v, want 65.00", k.SessionLow())
	}
}

func TestTracker_RangeClassification(t *testing.T) {
	k, _ := trackerWithStore(t)
	k.SetLimits(types.Temp(5000), types.Temp(8000))

	if in, valid := k.Observe(types.Temp(6500)); !in || !valid {
		t.Errorf("65.00 should be in range (in=%v valid=%v)", in, valid)
	}
	if in, valid := k.Observe(types.Temp(9000)); in || !valid {
		t.Errorf("90.00 should be out of range (in=%v valid=%v)", in, valid)
	}
	// Thresholds are strict bounds.
	if in, _ := k.Observe(types.Temp(8000)); in {
		t.Error("80.00 must classify as out of range (strict)")
	}
	// 0.00 is "no data" for the classifier.
	if _, valid := k.Observe(0); valid {
		t.Error("0.00 reading must classify as invalid")
	}
}

func TestTracker_Reset(t *testing.T) {
	k, _ := trackerWithStore(t)

	k.Observe(types.Temp(7500))
	k.Observe(types.Temp(6000))

	if err := k.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := k.AllTimeHigh(); got != ResetHigh {
		t.Errorf("all-time high after reset = %v, want 0.00", got)
	}
	if got := k.AllTimeLow(); got != ResetLow {
		t.Errorf("all-time low after reset = %v, want 254.00", got)
	}
	if k.SessionHigh() != SessionHighInit || k.SessionLow() != SessionLowInit {
		t.Errorf("session extrema after reset = %v/%v, want sentinels",
			k.SessionHigh(), k.SessionLow())
	}
}
