package main

import (
	"context"
	"encoding/json"
	"time"

	"tempreader-go/bus"
	"tempreader-go/extrema"
	"tempreader-go/platform"
	"tempreader-go/services/buttons"
	"tempreader-go/services/command"
	"tempreader-go/services/config"
	"tempreader-go/services/console"
	"tempreader-go/services/display"
	"tempreader-go/services/indicator"
	"tempreader-go/services/sampler"
	"tempreader-go/types"
)

// Fallback indicator lines when no config/indicator section is published.
const (
	defaultInRangePin  = 16
	defaultOutRangePin = 17
)

// Front-panel buttons (active-low, debounced in hardware).
const (
	bannerButtonPin = 18
	resetButtonPin  = 19
)

func main() {
	// Give USB CDC a moment to enumerate so early prints are not lost.
	time.Sleep(2 * time.Second)
	println("[main]", console.Name, console.Version, "booting")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "tempreader")
	b := bus.NewBus(8)

	rig, ok := platform.Default()
	if !ok {
		println("[main] no board rig available")
		return
	}

	store := extrema.NewStore(rig.Storage)
	tracker := extrema.NewTracker(store)

	cfgSvc := config.NewConfigService()
	cfgSvc.Start(ctx, b.NewConnection("config"))

	cmdSvc := command.New(b.NewConnection("command"), tracker)
	if rig.Port != nil {
		if err := cmdSvc.Bind(rig.Port); err != nil {
			println("[main] bind two-wire port:", err.Error())
		}
	}
	go cmdSvc.Run(ctx)

	go sampler.Run(ctx, b.NewConnection("sampler"), tracker, rig.Therm)

	inPin, outPin := indicatorPins(b, rig.Pin)
	go indicator.Run(ctx, b.NewConnection("indicator"), inPin, outPin)
	go display.Run(ctx, b.NewConnection("display"), rig.Display)
	go buttons.Run(ctx, rig.Pin(bannerButtonPin), rig.Pin(resetButtonPin), cmdSvc)

	// The console owns the foreground; everything else runs behind it.
	console.Run(ctx, b.NewConnection("console"), rig.Console,
		&consoleStatus{Tracker: tracker, cmd: cmdSvc})
}

// indicatorPins resolves the indicator GPIO lines from the retained
// config/indicator section, falling back to board defaults.
func indicatorPins(b *bus.Bus, pin func(int) types.GPIOPin) (types.GPIOPin, types.GPIOPin) {
	cfg := types.IndicatorConfig{
		InRangePin:  defaultInRangePin,
		OutRangePin: defaultOutRangePin,
	}

	conn := b.NewConnection("main")
	sub := conn.Subscribe(bus.T("config", "indicator"))
	select {
	case msg := <-sub.Channel():
		var v types.IndicatorConfig
		if raw, ok := msg.Payload.([]byte); ok &&
			json.Unmarshal(raw, &v) == nil && v.InRangePin != v.OutRangePin {
			cfg = v
		}
	case <-time.After(500 * time.Millisecond):
	}
	conn.Disconnect()

	return pin(cfg.InRangePin), pin(cfg.OutRangePin)
}

// consoleStatus exposes the tracker to the console, routing resets through
// the command service so the reset acknowledgement reaches everyone.
type consoleStatus struct {
	*extrema.Tracker
	cmd *command.Service
}

func (s *consoleStatus) Reset() error { return s.cmd.Reset() }
