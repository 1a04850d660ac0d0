//go:build rp2040 || rp2350

package platform

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/onewire"
	"tinygo.org/x/drivers/tm1637"

	"tempreader-go/drivers/at24cxx"
	"tempreader-go/drivers/ds18b20"
	"tempreader-go/errcode"
	"tempreader-go/types"
)

// -----------------------------------------------------------------------------
// Board wiring (Raspberry Pi Pico / Pico 2, RP2 family)
// -----------------------------------------------------------------------------

const (
	oneWirePin = machine.GP22 // DS18B20 data line (external pull-up)

	displayCLKPin = machine.GP14 // TM1637 four-digit module
	displayDIOPin = machine.GP15

	// Address this unit answers on as a two-wire peripheral.
	twoWireAddr = 0x08
)

// Default configures I2C0 for the settings EEPROM, I2C1 in target mode for
// the command bus, the one-wire sensor line, the TM1637 module, and UART0 for
// the operator console.
func Default() (Rig, bool) {
	// EEPROM bus (controller mode, board-default pins).
	i2c0 := machine.I2C0
	_ = i2c0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	eeprom := at24cxx.New(i2c0)
	eeprom.Configure()

	// Command bus (target mode).
	i2c1 := machine.I2C1
	_ = i2c1.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  machine.I2C1_SDA_PIN,
		SCL:  machine.I2C1_SCL_PIN,
	})

	// One-wire thermometer.
	ow := onewire.New(oneWirePin)
	sensor := ds18b20.New(owBus{ow: ow})
	sensor.Configure()

	// Display.
	seg := tm1637.New(displayCLKPin, displayDIOPin, 5)
	seg.Configure()

	// Console UART.
	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	return Rig{
		Therm:   &rp2Therm{dev: sensor},
		Storage: &eeprom,
		Port:    &rp2TwoWirePort{hw: i2c1, addr: twoWireAddr},
		Display: &rp2Display{dev: &seg},
		Console: &rp2Serial{u: uart},
		Pin: func(n int) types.GPIOPin {
			return &rp2Pin{p: machine.Pin(n), n: n}
		},
	}, true
}

// -----------------------------------------------------------------------------
// Thermometer: ds18b20 over a bit-banged one-wire line
// -----------------------------------------------------------------------------

type owBus struct {
	ow onewire.Device
}

func (b owBus) Reset() error {
	if err := b.ow.Reset(); err != nil {
		return errcode.NoPresence
	}
	return nil
}

func (b owBus) WriteByte(v byte) error {
	b.ow.Write(v)
	return nil
}

func (b owBus) ReadByte() (byte, error) {
	return b.ow.Read(), nil
}

func (b owBus) ReadBit() (bool, error) {
	return b.ow.ReadBit() != 0, nil
}

type rp2Therm struct {
	dev ds18b20.Device
}

func (t *rp2Therm) Trigger() (time.Duration, error) {
	if err := t.dev.Trigger(); err != nil {
		return 0, err
	}
	return t.dev.TriggerHint(), nil
}

func (t *rp2Therm) Collect() (types.Temp, error) {
	centiC, err := t.dev.Collect()
	switch err {
	case nil:
		return types.FromCelsius(types.Temp(centiC)), nil
	case ds18b20.ErrNotReady:
		return 0, errcode.NotReady
	case ds18b20.ErrCRC:
		return 0, errcode.CRCMismatch
	default:
		return 0, err
	}
}

// -----------------------------------------------------------------------------
// Two-wire peripheral port (hardware target mode)
// -----------------------------------------------------------------------------

type rp2TwoWirePort struct {
	hw   *machine.I2C
	addr uint16
}

func (p *rp2TwoWirePort) SetHandlers(onReceive func(byte), onRequest func() ([2]byte, bool)) error {
	if err := p.hw.Listen(p.addr); err != nil {
		return err
	}
	go p.serve(onReceive, onRequest)
	return nil
}

func (p *rp2TwoWirePort) serve(onReceive func(byte), onRequest func() ([2]byte, bool)) {
	buf := make([]byte, 4)
	for {
		evt, n, err := p.hw.WaitForEvent(buf)
		if err != nil {
			continue
		}
		switch evt {
		case machine.I2CReceive:
			for i := 0; i < n; i++ {
				onReceive(buf[i])
			}
		case machine.I2CRequest:
			if resp, ok := onRequest(); ok {
				_ = p.hw.Reply(resp[:])
			} else {
				_ = p.hw.Reply([]byte{0, 0})
			}
		case machine.I2CFinish:
			// Transaction boundary; nothing to flush.
		}
	}
}

// -----------------------------------------------------------------------------
// Display, GPIO, console
// -----------------------------------------------------------------------------

type rp2Display struct {
	dev *tm1637.Device
}

func (d *rp2Display) Render(text string) error {
	d.dev.ClearDisplay()
	d.dev.DisplayText([]byte(text))
	return nil
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) ConfigureInput(pullUp bool) error {
	mode := machine.PinInput
	if pullUp {
		mode = machine.PinInputPullup
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }

func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}

func (r *rp2Pin) Number() int { return r.n }

// rp2Serial adapts uartx to io.ReadWriter for the console service.
type rp2Serial struct {
	u *uartx.UART
}

func (s *rp2Serial) Read(b []byte) (int, error) {
	return s.u.RecvSomeContext(context.Background(), b)
}

func (s *rp2Serial) Write(b []byte) (int, error) { return s.u.Write(b) }
