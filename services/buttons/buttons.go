// services/buttons/buttons.go
package buttons

import (
	"context"
	"time"

	"tempreader-go/types"
)

// Actions are the entry points the two front-panel buttons invoke.
// *command.Service satisfies this.
type Actions interface {
	Reset() error
	RequestBanner()
}

const pollInterval = 20 * time.Millisecond

// Run watches the banner and reset buttons. Lines are active-low with
// pull-ups; debouncing happens in hardware, so a single falling edge is a
// press. Runs until ctx is cancelled.
func Run(ctx context.Context, bannerBtn, resetBtn types.GPIOPin, act Actions) {
	if err := bannerBtn.ConfigureInput(true); err != nil {
		println("Error: buttons: configure banner pin:", err.Error())
		return
	}
	if err := resetBtn.ConfigureInput(true); err != nil {
		println("Error: buttons: configure reset pin:", err.Error())
		return
	}

	bannerWas := bannerBtn.Get()
	resetWas := resetBtn.Get()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if now := bannerBtn.Get(); now != bannerWas {
			if !now { // falling edge
				act.RequestBanner()
			}
			bannerWas = now
		}

		if now := resetBtn.Get(); now != resetWas {
			if !now {
				if err := act.Reset(); err != nil {
					println("Error: buttons: reset:", err.Error())
				}
			}
			resetWas = now
		}
	}
}
