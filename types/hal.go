package types

// Hardware-facing interfaces. The platform package supplies real
// implementations on MCU builds; tests inject fakes.

// GPIOPin is the subset of a digital pin the indicator and button glue
// needs. Button inputs are debounced externally.
type GPIOPin interface {
	ConfigureOutput(initial bool) error
	ConfigureInput(pullUp bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Display renders a short string on the seven-segment module.
type Display interface {
	Render(s string) error
}

// TwoWirePort is the peripheral (target) side of the command bus. Handlers
// run on the port's event goroutine, the stand-in for interrupt context:
// they must not block and must not touch storage.
//
// onReceive is called once per inbound opcode byte. onRequest is called when
// the controller clocks a read; it returns the staged 2-byte response
// (big-endian) and whether one is pending. A consumed response is not
// resent.
type TwoWirePort interface {
	SetHandlers(onReceive func(b byte), onRequest func() ([2]byte, bool)) error
}
