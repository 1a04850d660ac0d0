// services/indicator/indicator.go
package indicator

import (
	"context"
	"time"

	"tempreader-go/bus"
	"tempreader-go/types"
)

var (
	topicRange     = bus.T("temp", "range")
	topicResetDone = bus.T("sys", "reset", "done")
)

const (
	resetBlinks     = 3
	resetBlinkDelay = 120 * time.Millisecond
)

// Run drives the two indicator lines from range classifications. A reading
// classified as "no data" leaves the lines as they are. A completed factory
// reset is acknowledged with a short blink on both lines.
func Run(ctx context.Context, conn *bus.Connection, inRangePin, outRangePin types.GPIOPin) {
	if err := inRangePin.ConfigureOutput(false); err != nil {
		println("Error: indicator: configure in-range pin:", err.Error())
		return
	}
	if err := outRangePin.ConfigureOutput(false); err != nil {
		println("Error: indicator: configure out-range pin:", err.Error())
		return
	}

	rangeSub := conn.Subscribe(topicRange)
	resetSub := conn.Subscribe(topicResetDone)
	defer conn.Unsubscribe(rangeSub)
	defer conn.Unsubscribe(resetSub)

	for {
		select {
		case <-ctx.Done():
			inRangePin.Set(false)
			outRangePin.Set(false)
			return

		case msg := <-rangeSub.Channel():
			rv, ok := msg.Payload.(types.RangeValue)
			if !ok || !rv.Valid {
				continue
			}
			inRangePin.Set(rv.InRange)
			outRangePin.Set(!rv.InRange)

		case <-resetSub.Channel():
			blink(ctx, inRangePin, outRangePin)
		}
	}
}

func blink(ctx context.Context, pins ...types.GPIOPin) {
	for i := 0; i < resetBlinks*2; i++ {
		for _, p := range pins {
			p.Toggle()
		}
		t := time.NewTimer(resetBlinkDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
