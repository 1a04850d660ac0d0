package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"tempreader-go/bus"
	"tempreader-go/errcode"
	"tempreader-go/extrema"
	"tempreader-go/types"
)

// fakeTherm returns a scripted sequence of readings, cycling on exhaustion.
// It reports ErrNotReady for the first `notReady` Collect calls per cycle.
type fakeTherm struct {
	seq      []types.Temp
	i        int
	notReady int
	pending  int

	triggers int
	failTrig bool
}

func (f *fakeTherm) Trigger() (time.Duration, error) {
	f.triggers++
	if f.failTrig {
		return 0, errors.New("onewire: no presence")
	}
	f.pending = f.notReady
	return time.Millisecond, nil
}

func (f *fakeTherm) Collect() (types.Temp, error) {
	if f.pending > 0 {
		f.pending--
		return 0, errcode.NotReady
	}
	v := f.seq[f.i%len(f.seq)]
	f.i++
	return v, nil
}

type memStorage struct{ mem map[uint16]byte }

func (m *memStorage) ReadByte(a uint16) (byte, error)  { return m.mem[a], nil }
func (m *memStorage) WriteByte(a uint16, v byte) error { m.mem[a] = v; return nil }

func newTracker(t *testing.T) *extrema.Tracker {
	t.Helper()
	s := extrema.NewStore(&memStorage{mem: map[uint16]byte{}})
	k := extrema.NewTracker(s)
	if err := k.Reset(); err != nil {
		t.Fatal(err)
	}
	return k
}

func startSampler(t *testing.T, therm Thermometer, tracker *extrema.Tracker) (*bus.Bus, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())

	// Short period so tests run quickly; retained, replayed on subscribe.
	uiConn := b.NewConnection("test")
	uiConn.Publish(uiConn.NewMessage(bus.T("config", "sampler"),
		types.SamplerConfig{PeriodMs: minPeriodMs}, true))

	go Run(ctx, b.NewConnection("sampler"), tracker, therm)
	return b, cancel
}

func waitMsg(t *testing.T, sub *bus.Subscription, timeout time.Duration) *bus.Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(timeout):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func TestSampler_PublishesReadingAndRange(t *testing.T) {
	therm := &fakeTherm{seq: []types.Temp{7245}}
	tracker := newTracker(t)
	b, cancel := startSampler(t, therm, tracker)
	defer cancel()

	c := b.NewConnection("probe")
	readingSub := c.Subscribe(bus.T("temp", "reading"))
	rangeSub := c.Subscribe(bus.T("temp", "range"))

	m := waitMsg(t, readingSub, 3*time.Second)
	rv := m.Payload.(types.ReadingValue)
	if rv.CentiF != 7245 {
		t.Errorf("reading = %v, want 72.45", rv.CentiF)
	}

	rm := waitMsg(t, rangeSub, 3*time.Second)
	rng := rm.Payload.(types.RangeValue)
	if !rng.Valid || !rng.InRange {
		t.Errorf("range = %+v, want valid in-range", rng)
	}

	if tracker.Current() != 7245 {
		t.Errorf("tracker current = %v", tracker.Current())
	}
}

func TestSampler_RetriesNotReady(t *testing.T) {
	therm := &fakeTherm{seq: []types.Temp{6100}, notReady: 2}
	tracker := newTracker(t)
	b, cancel := startSampler(t, therm, tracker)
	defer cancel()

	c := b.NewConnection("probe")
	readingSub := c.Subscribe(bus.T("temp", "reading"))

	m := waitMsg(t, readingSub, 3*time.Second)
	if m.Payload.(types.ReadingValue).CentiF != 6100 {
		t.Errorf("reading = %v, want 61.00", m.Payload)
	}
}

func TestSampler_TriggerFailurePublishesErrorState(t *testing.T) {
	therm := &fakeTherm{seq: []types.Temp{7000}, failTrig: true}
	tracker := newTracker(t)
	b, cancel := startSampler(t, therm, tracker)
	defer cancel()

	c := b.NewConnection("probe")
	stateSub := c.Subscribe(bus.T("sampler", "state"))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case m := <-stateSub.Channel():
			st := m.Payload.(types.SvcState)
			if st.Level == "error" && st.Status == "trigger_failed" {
				return
			}
		case <-deadline:
			t.Fatal("no error state seen")
		}
	}
}

func TestSampler_ZeroReadingInvalidRange(t *testing.T) {
	therm := &fakeTherm{seq: []types.Temp{0}}
	tracker := newTracker(t)
	b, cancel := startSampler(t, therm, tracker)
	defer cancel()

	c := b.NewConnection("probe")
	rangeSub := c.Subscribe(bus.T("temp", "range"))

	m := waitMsg(t, rangeSub, 3*time.Second)
	if rng := m.Payload.(types.RangeValue); rng.Valid {
		t.Errorf("zero reading produced valid classification: %+v", rng)
	}
}

func TestSampler_ThresholdConfigApplies(t *testing.T) {
	therm := &fakeTherm{seq: []types.Temp{7245}}
	tracker := newTracker(t)
	b, cancel := startSampler(t, therm, tracker)
	defer cancel()

	uiConn := b.NewConnection("ui")
	uiConn.Publish(uiConn.NewMessage(bus.T("config", "thresholds"),
		types.ThresholdConfig{LowCentiF: 1000, HighCentiF: 2000}, true))

	deadline := time.Now().Add(3 * time.Second)
	for {
		low, high := tracker.Limits()
		if low == 1000 && high == 2000 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("limits not applied: %v..%v", low, high)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
