package protocol

import (
	"sync"

	"tempreader-go/types"
)

// -----------------------------------------------------------------------------
// Mailbox + response slot
// -----------------------------------------------------------------------------

// Mailbox is the single-slot request mailbox the receive callback pushes
// into. A new opcode arriving while one is still staged overwrites it
// (last-write-wins, no queueing). Put and Take are O(1) and safe from the
// port's event goroutine.
type Mailbox struct {
	mu   sync.Mutex
	op   byte
	full bool
}

// Put stages an opcode, reporting whether an unserved one was overwritten.
func (m *Mailbox) Put(op byte) (overwrote bool) {
	m.mu.Lock()
	overwrote = m.full
	m.op = op
	m.full = true
	m.mu.Unlock()
	return overwrote
}

// Take drains the staged opcode, if any.
func (m *Mailbox) Take() (byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return 0, false
	}
	m.full = false
	return m.op, true
}

// Response is the single pending response slot. Stage is called by the
// handler loop after computing a reply; Take by the request callback, which
// only peeks pre-computed bytes. The consumed flag stops a stale response
// from being resent.
type Response struct {
	mu      sync.Mutex
	buf     [2]byte
	pending bool
}

// Stage overwrites the pending response with the big-endian form of w.
func (r *Response) Stage(w uint16) {
	r.mu.Lock()
	r.buf = Bytes(w)
	r.pending = true
	r.mu.Unlock()
}

// Take consumes the pending response. ok is false once consumed, until the
// next Stage.
func (r *Response) Take() (b [2]byte, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending {
		return [2]byte{}, false
	}
	r.pending = false
	return r.buf, true
}

// -----------------------------------------------------------------------------
// Opcode resolution
// -----------------------------------------------------------------------------

// Source supplies the state queries and procedures opcodes resolve against.
// Implementations may block (storage reads, resets); Handle therefore runs
// on the command service loop, never in the port callbacks.
type Source interface {
	CurrentF() types.Temp
	SessionHigh() types.Temp
	SessionLow() types.Temp
	AllTimeHigh() types.Temp
	AllTimeLow() types.Temp
	Limits() (low, high types.Temp)
	Reset() error
	RequestBanner()
}

// Handle resolves one opcode into a wire response. respond is false only for
// OpNone; every other opcode, recognised or not, produces a response.
func Handle(op byte, src Source) (resp uint16, respond bool) {
	switch op {
	case OpNone:
		return 0, false
	case OpEcho:
		return uint16(OpEcho), true
	case OpCurrentF:
		return EncodeWire(src.CurrentF()), true
	case OpCurrentC:
		return EncodeWire(src.CurrentF().ToCelsius()), true
	case OpAllTimeHigh:
		return EncodeWire(src.AllTimeHigh()), true
	case OpAllTimeLow:
		return EncodeWire(src.AllTimeLow()), true
	case OpSessionHigh:
		return EncodeWire(src.SessionHigh()), true
	case OpSessionLow:
		return EncodeWire(src.SessionLow()), true
	case OpHighLimit:
		_, high := src.Limits()
		return EncodeWire(high), true
	case OpLowLimit:
		low, _ := src.Limits()
		return EncodeWire(low), true
	case OpBanner:
		src.RequestBanner()
		return CodeOK, true
	case OpReset:
		if err := src.Reset(); err != nil {
			return CodeError, true
		}
		return CodeOK, true
	default:
		return CodeBadRequest, true
	}
}
