// Package ds18b20 provides a driver for the DS18B20 one-wire temperature
// sensor. It exposes a two-phase measurement API:
//
//	d.Trigger()               // start a conversion (fast)
//	v, err := d.Collect()     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + bounded polling until ready.
//
// The driver is bus-transport agnostic: it talks to any Bus implementation
// (bit-banged pin, one-wire bridge, test fake). Values are fixed-point
// hundredths of °C; no floating point on the hot path.
package ds18b20

import (
	"errors"
	"time"
)

// ROM/function commands (per datasheet).
const (
	cmdSkipROM        = 0xCC
	cmdConvertT       = 0x44
	cmdReadScratchpad = 0xBE
)

const scratchpadLen = 9

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("ds18b20: timeout")
	ErrNotReady = errors.New("ds18b20: not ready")
	ErrCRC      = errors.New("ds18b20: scratchpad crc mismatch")
)

// Bus is the narrow one-wire transport the driver needs. Reset returns an
// error when no device asserts presence.
type Bus interface {
	Reset() error
	WriteByte(b byte) error
	ReadByte() (byte, error)
	// ReadBit samples one bit; during an active conversion the DS18B20
	// holds the line low.
	ReadBit() (bool, error)
}

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// ConversionHint is the nominal 12-bit conversion time used as the
	// wait hint after Trigger. Default 750 ms.
	ConversionHint time.Duration
	// PollInterval is used by Read() between Collect() attempts. Default 20 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 1 s.
	CollectTimeout time.Duration
}

// Device wraps a one-wire connection to a single DS18B20 (skip-ROM
// addressing; exactly one sensor on the bus).
type Device struct {
	bus Bus
	cfg Config

	buf  [scratchpadLen]byte // reuse buffer to avoid allocations
	last int32               // last raw sample, hundredths of °C
}

// New creates a new DS18B20 connection. This only creates the Device object;
// it does not touch the sensor.
func New(bus Bus) Device {
	return Device{bus: bus}
}

// Configure applies optional config; may be called with no cfg.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.ConversionHint <= 0 {
		c.ConversionHint = 750 * time.Millisecond
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 20 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = time.Second
	}
	d.cfg = c
}

// Trigger starts a temperature conversion. It is quick and does not block
// for the conversion itself.
func (d *Device) Trigger() error {
	if d.cfg.ConversionHint == 0 {
		d.Configure()
	}
	if err := d.bus.Reset(); err != nil {
		return err
	}
	if err := d.bus.WriteByte(cmdSkipROM); err != nil {
		return err
	}
	return d.bus.WriteByte(cmdConvertT)
}

// TriggerHint returns the nominal conversion time to wait before Collect.
func (d *Device) TriggerHint() time.Duration {
	if d.cfg.ConversionHint > 0 {
		return d.cfg.ConversionHint
	}
	return 750 * time.Millisecond
}

// Collect fetches the scratchpad once a conversion has finished, returning
// hundredths of °C. ErrNotReady is returned while the sensor still holds the
// line low.
func (d *Device) Collect() (int32, error) {
	done, err := d.bus.ReadBit()
	if err != nil {
		return 0, err
	}
	if !done {
		return 0, ErrNotReady
	}

	if err := d.bus.Reset(); err != nil {
		return 0, err
	}
	if err := d.bus.WriteByte(cmdSkipROM); err != nil {
		return 0, err
	}
	if err := d.bus.WriteByte(cmdReadScratchpad); err != nil {
		return 0, err
	}
	for i := range d.buf {
		b, err := d.bus.ReadByte()
		if err != nil {
			return 0, err
		}
		d.buf[i] = b
	}
	if crc8(d.buf[:scratchpadLen-1]) != d.buf[scratchpadLen-1] {
		return 0, ErrCRC
	}

	// Raw is sixteenths of °C, signed.
	raw := int16(uint16(d.buf[1])<<8 | uint16(d.buf[0]))
	d.last = int32(raw) * 25 / 4
	return d.last, nil
}

// Read performs a full measurement cycle: Trigger followed by bounded
// polling until Collect succeeds or the timeout elapses.
func (d *Device) Read() (int32, error) {
	if err := d.Trigger(); err != nil {
		return 0, err
	}
	time.Sleep(d.TriggerHint())
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		v, err := d.Collect()
		switch err {
		case nil:
			return v, nil
		case ErrNotReady:
			if time.Now().After(deadline) {
				return 0, ErrTimeout
			}
			time.Sleep(d.cfg.PollInterval)
		default:
			return 0, err
		}
	}
}

// LastCentiC returns the last cached sample in hundredths of °C.
func (d *Device) LastCentiC() int32 { return d.last }

// crc8 is the Dallas/Maxim CRC (poly 0x31 reflected) over the scratchpad.
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0x8C
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
