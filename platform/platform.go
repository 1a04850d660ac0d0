// Package platform supplies the board-level resources the firmware wires at
// boot. The RP2 build talks to real hardware; other builds get a simulated
// rig for host-side development. Tests inject their own fakes and do not use
// this package.
package platform

import (
	"io"

	"tempreader-go/extrema"
	"tempreader-go/services/sampler"
	"tempreader-go/types"
)

// Rig bundles everything cmd/tempreader needs to wire the services.
// Port is nil when the build has no two-wire peripheral controller.
type Rig struct {
	Therm   sampler.Thermometer
	Storage extrema.Storage
	Port    types.TwoWirePort
	Display types.Display
	Console io.ReadWriter

	// Pin maps a board pin number to a GPIO line.
	Pin func(n int) types.GPIOPin
}
