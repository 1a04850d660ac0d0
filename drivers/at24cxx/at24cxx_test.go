package at24cxx

import (
	"errors"
	"testing"
	"time"
)

// fakeI2C simulates an AT24Cxx: a byte array plus a write-cycle busy window
// during which the part NAKs its address.
type fakeI2C struct {
	mem        [8192]byte
	addrPtr    uint16
	busyNaks   int  // remaining transactions to NAK after a write
	stickyBusy bool // simulate a part whose write cycle never ends
	txCount    int
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.txCount++
	if f.busyNaks > 0 {
		f.busyNaks--
		return errors.New("i2c: nak")
	}
	if len(w) >= 2 {
		f.addrPtr = uint16(w[0])<<8 | uint16(w[1])
	}
	if len(w) == 3 {
		f.mem[f.addrPtr] = w[2]
		f.busyNaks = 2 // internal write cycle
		if f.stickyBusy {
			f.busyNaks = 1 << 30
		}
	}
	for i := range r {
		r[i] = f.mem[f.addrPtr]
		f.addrPtr++
	}
	return nil
}

func newDevice(f *fakeI2C) Device {
	d := New(f)
	d.Configure(Config{
		PollInterval: time.Microsecond,
		PollTimeout:  50 * time.Millisecond,
	})
	return d
}

func TestWriteRead(t *testing.T) {
	f := &fakeI2C{}
	d := newDevice(f)

	if err := d.WriteByte(0x0005, 0xAB); err != nil {
		t.Fatal(err)
	}
	got, err := d.ReadByte(0x0005)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xAB {
		t.Errorf("ReadByte = %#x, want 0xAB", got)
	}
}

func TestWrite_AckPollsThroughWriteCycle(t *testing.T) {
	f := &fakeI2C{}
	d := newDevice(f)

	if err := d.WriteByte(0, 1); err != nil {
		t.Fatal(err)
	}
	// The busy NAKs must have been consumed by polling.
	if f.busyNaks != 0 {
		t.Errorf("write returned while part still busy (%d NAKs left)", f.busyNaks)
	}
}

func TestWrite_Timeout(t *testing.T) {
	f := &fakeI2C{}
	d := New(f)
	d.Configure(Config{PollInterval: time.Microsecond, PollTimeout: time.Microsecond})

	f.stickyBusy = true // part never recovers
	if err := d.WriteByte(0, 1); err != ErrWriteTimeout {
		t.Fatalf("err = %v, want ErrWriteTimeout", err)
	}
}

func TestReadNeverWritten(t *testing.T) {
	f := &fakeI2C{}
	d := newDevice(f)

	got, err := d.ReadByte(0x0100)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("fresh cell = %#x, want 0", got)
	}
}
