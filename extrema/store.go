// Package extrema holds the persistent extremum store and the session
// high/low tracker. Records live in non-volatile storage as fixed 3-byte
// slots; the tracker decides when a reading becomes a new record.
package extrema

import (
	"sync"

	"tempreader-go/errcode"
	"tempreader-go/types"
)

// RecordSize is the width of one persisted extremum record:
// {wholeDegrees, fractionalHundredths, signFlag}.
const RecordSize = 3

// Fixed slot addresses. Slots must be multiples of RecordSize so a record
// never straddles a neighbour's bytes.
const (
	SlotHigh uint16 = 0
	SlotLow  uint16 = RecordSize
)

// ReadSentinel (255.00) is returned for misaligned or failed reads. Callers
// cannot distinguish "never written" from "aligned but unreadable" without
// external knowledge.
const ReadSentinel = types.Temp(25500)

// Storage is byte-addressable non-volatile memory (e.g. an I²C EEPROM).
type Storage interface {
	ReadByte(addr uint16) (byte, error)
	WriteByte(addr uint16, v byte) error
}

// Store encodes temperatures into 3-byte records. Access is serialized: the
// sampler persists records while the command service reads them back, and
// the underlying storage driver is not transaction-safe.
type Store struct {
	mu  sync.Mutex
	mem Storage
}

func NewStore(mem Storage) *Store {
	return &Store{mem: mem}
}

// Write persists value at slot. It fails without touching storage when slot
// is not record-aligned. Whole degrees outside 0..255 wrap silently in the
// one-byte encoding (known limitation). The three bytes are written
// independently; a power loss mid-write can leave a torn record.
func (s *Store) Write(value types.Temp, slot uint16) error {
	if slot%RecordSize != 0 {
		return errcode.InvalidAddress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	whole, hundredths, negative := value.Split()
	sign := byte(0)
	if negative {
		sign = 1
	}
	if err := s.mem.WriteByte(slot, byte(whole)); err != nil {
		return err
	}
	if err := s.mem.WriteByte(slot+1, hundredths); err != nil {
		return err
	}
	return s.mem.WriteByte(slot+2, sign)
}

// Read reconstructs sign * (whole + hundredths/100) from slot. Misaligned
// slots and storage failures yield ReadSentinel instead of an error.
func (s *Store) Read(slot uint16) types.Temp {
	if slot%RecordSize != 0 {
		return ReadSentinel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	whole, err := s.mem.ReadByte(slot)
	if err != nil {
		return ReadSentinel
	}
	hundredths, err := s.mem.ReadByte(slot + 1)
	if err != nil {
		return ReadSentinel
	}
	sign, err := s.mem.ReadByte(slot + 2)
	if err != nil {
		return ReadSentinel
	}
	return types.FromParts(whole, hundredths, sign != 0)
}
