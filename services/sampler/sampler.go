// services/sampler/sampler.go
package sampler

import (
	"context"
	"encoding/json"
	"time"

	"tempreader-go/bus"
	"tempreader-go/errcode"
	"tempreader-go/extrema"
	"tempreader-go/types"
	"tempreader-go/x/mathx"
	"tempreader-go/x/timex"
)

// Thermometer is the one-wire sensor driver seen from the sampling loop.
// Trigger starts a conversion and returns the suggested wait before Collect.
// Collect returns °F hundredths, or errcode.NotReady while converting.
type Thermometer interface {
	Trigger() (collectAfter time.Duration, err error)
	Collect() (types.Temp, error)
}

const (
	defaultPeriodMs = 2000
	minPeriodMs     = 500
	maxPeriodMs     = 3_600_000

	collectRetries = 6
	retryBackoff   = 20 * time.Millisecond
)

var (
	topicConfigSampler    = bus.T("config", "sampler")
	topicConfigThresholds = bus.T("config", "thresholds")
	topicReading          = bus.T("temp", "reading")
	topicRange            = bus.T("temp", "range")
	topicState            = bus.T("sampler", "state")
)

type service struct {
	conn     *bus.Connection
	tracker  *extrema.Tracker
	therm    Thermometer
	periodMs int
}

// Run drives the fixed-interval sampling loop until ctx is cancelled. The
// schedule is measured from the end of each cycle, so the sensor's
// conversion latency stretches rather than skews it.
func Run(ctx context.Context, conn *bus.Connection, tracker *extrema.Tracker, therm Thermometer) {
	s := &service{
		conn:     conn,
		tracker:  tracker,
		therm:    therm,
		periodMs: defaultPeriodMs,
	}
	s.loop(ctx)
}

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfigSampler)
	thrSub := s.conn.Subscribe(topicConfigThresholds)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(thrSub)

	s.publishState("ready", "sampling", nil)

	timer := time.NewTimer(time.Duration(s.periodMs) * time.Millisecond)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			var cfg types.SamplerConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			if cfg.PeriodMs > 0 {
				s.periodMs = mathx.Clamp(cfg.PeriodMs, minPeriodMs, maxPeriodMs)
				if !timer.Stop() {
					drainTimer(timer)
				}
				timer.Reset(time.Duration(s.periodMs) * time.Millisecond)
			}

		case msg := <-thrSub.Channel():
			var cfg types.ThresholdConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			if cfg.LowCentiF < cfg.HighCentiF {
				s.tracker.SetLimits(types.Temp(cfg.LowCentiF), types.Temp(cfg.HighCentiF))
			}

		case <-timer.C:
			s.sample(ctx)
			timer.Reset(time.Until(timex.NextAfter(time.Now(),
				time.Duration(s.periodMs)*time.Millisecond)))
		}
	}
}

// sample runs one trigger/collect cycle and feeds the tracker.
func (s *service) sample(ctx context.Context) {
	after, err := s.therm.Trigger()
	if err != nil {
		s.publishState("error", "trigger_failed", err)
		return
	}
	if !sleepCtx(ctx, after) {
		return
	}

	var t types.Temp
	for attempt := 0; ; attempt++ {
		t, err = s.therm.Collect()
		if err == nil {
			break
		}
		if errcode.Of(err) == errcode.NotReady && attempt < collectRetries {
			if !sleepCtx(ctx, retryBackoff) {
				return
			}
			continue
		}
		s.publishState("error", "collect_failed", err)
		return
	}

	inRange, valid := s.tracker.Observe(t)
	now := timex.NowMs()

	s.conn.Publish(s.conn.NewMessage(topicReading,
		types.ReadingValue{CentiF: t, TsMs: now}, true))
	s.conn.Publish(s.conn.NewMessage(topicRange,
		types.RangeValue{InRange: inRange, Valid: valid, TsMs: now}, true))
}

func (s *service) publishState(level, status string, err error) {
	if err != nil {
		println("Error: sampler:", status, err.Error())
	}
	s.conn.Publish(s.conn.NewMessage(topicState,
		types.SvcState{Level: level, Status: status, TsMs: timex.NowMs()}, true))
}

func drainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func decodeJSON[T any](src any, dst *T) error {
	if v, ok := src.(T); ok {
		*dst = v
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		// Accept maps, structs, numbers… by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
