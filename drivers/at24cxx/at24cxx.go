// Package at24cxx provides a driver for AT24C32/64-class I²C EEPROMs with
// two-byte word addressing. Only single-byte reads and writes are exposed;
// record-level layout belongs to the caller.
//
// After a byte write the part goes deaf for its internal write cycle
// (typically ~5 ms) and NAKs its address; WriteByte acknowledges-polls until
// the cycle ends or PollTimeout elapses.
package at24cxx

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Default I²C address (A2..A0 grounded).
const Address = 0x50

// Errors returned by the driver.
var ErrWriteTimeout = errors.New("at24cxx: write cycle timeout")

// Config controls addressing and timing. All fields are optional.
type Config struct {
	// Address defaults to 0x50 if zero.
	Address uint16
	// PollInterval between acknowledge polls. Default 1 ms.
	PollInterval time.Duration
	// PollTimeout bounds the post-write acknowledge polling. Default 20 ms.
	PollTimeout time.Duration
}

// Device wraps an I²C connection to an AT24Cxx part.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg Config
	buf [3]byte // word address + data, reused to avoid allocations
}

// New creates a new AT24Cxx connection. The I²C bus must already be
// configured. This function only creates the Device object; it does not
// touch the part.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure applies optional config; may be called with no cfg.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Millisecond
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 20 * time.Millisecond
	}
	d.cfg = c
}

// ReadByte returns the byte at addr (random read: address write followed by
// a repeated-start read).
func (d *Device) ReadByte(addr uint16) (byte, error) {
	d.buf[0] = byte(addr >> 8)
	d.buf[1] = byte(addr)
	var r [1]byte
	if err := d.bus.Tx(d.Address, d.buf[:2], r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// WriteByte stores v at addr and waits out the internal write cycle.
func (d *Device) WriteByte(addr uint16, v byte) error {
	if d.cfg.PollTimeout == 0 {
		d.Configure()
	}
	d.buf[0] = byte(addr >> 8)
	d.buf[1] = byte(addr)
	d.buf[2] = v
	if err := d.bus.Tx(d.Address, d.buf[:3], nil); err != nil {
		return err
	}
	return d.waitWriteCycle()
}

// waitWriteCycle acknowledge-polls with empty address writes until the part
// ACKs again.
func (d *Device) waitWriteCycle() error {
	deadline := time.Now().Add(d.cfg.PollTimeout)
	for {
		d.buf[0] = 0
		d.buf[1] = 0
		if err := d.bus.Tx(d.Address, d.buf[:2], nil); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrWriteTimeout
		}
		time.Sleep(d.cfg.PollInterval)
	}
}
