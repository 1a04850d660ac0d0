// services/display/display.go
package display

import (
	"context"

	"tempreader-go/bus"
	"tempreader-go/types"
)

var (
	topicReading   = bus.T("temp", "reading")
	topicResetDone = bus.T("sys", "reset", "done")
)

// resetPattern is shown briefly after a factory reset; the next reading
// replaces it.
const resetPattern = "----"

// Run renders each published reading on the seven-segment display.
func Run(ctx context.Context, conn *bus.Connection, disp types.Display) {
	readingSub := conn.Subscribe(topicReading)
	resetSub := conn.Subscribe(topicResetDone)
	defer conn.Unsubscribe(readingSub)
	defer conn.Unsubscribe(resetSub)

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-readingSub.Channel():
			rv, ok := msg.Payload.(types.ReadingValue)
			if !ok {
				continue
			}
			if err := disp.Render(rv.CentiF.String()); err != nil {
				println("Error: display: render:", err.Error())
			}

		case <-resetSub.Channel():
			if err := disp.Render(resetPattern); err != nil {
				println("Error: display: render:", err.Error())
			}
		}
	}
}
