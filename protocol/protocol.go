// Package protocol implements the single-byte command / two-byte response
// protocol spoken on the two-wire bus.
package protocol

import "tempreader-go/types"

// Opcodes. Anything not listed answers with CodeBadRequest.
const (
	OpNone        byte = 0  // ignored, no response
	OpEcho        byte = 42 // easter egg, echoes itself
	OpCurrentF    byte = 70
	OpCurrentC    byte = 71
	OpAllTimeHigh byte = 72
	OpAllTimeLow  byte = 73
	OpSessionHigh byte = 74
	OpSessionLow  byte = 75
	OpHighLimit   byte = 76
	OpLowLimit    byte = 77
	OpBanner      byte = 79 // side effect only, acks CodeOK
	OpReset       byte = 89 // factory reset, CodeOK or CodeError
)

// Fixed response codes, sharing the numeric response channel with
// temperatures.
const (
	CodeOK         uint16 = 200
	CodeBadRequest uint16 = 400
	CodeError      uint16 = 500
)

// Known reports whether op is in the documented opcode table.
func Known(op byte) bool {
	switch op {
	case OpNone, OpEcho, OpCurrentF, OpCurrentC, OpAllTimeHigh, OpAllTimeLow,
		OpSessionHigh, OpSessionLow, OpHighLimit, OpLowLimit, OpBanner, OpReset:
		return true
	}
	return false
}

// EncodeWire converts a temperature to its wire form: hundredths of a degree
// in a uint16, relying on two's-complement wraparound for negatives
// (-28.00 -> 62736). This hard-caps the representable magnitude to the
// unsigned range; larger values wrap.
func EncodeWire(t types.Temp) uint16 {
	return uint16(int32(t))
}

// DecodeWire is the receiving side's inverse: values above 32767 are
// negative.
func DecodeWire(w uint16) types.Temp {
	return types.Temp(int16(w))
}

// Bytes splits a wire value into the 2-byte big-endian sequence sent on the
// bus. Big-endian is the documented order for this protocol.
func Bytes(w uint16) [2]byte {
	return [2]byte{byte(w >> 8), byte(w)}
}

// FromBytes reassembles a big-endian wire value.
func FromBytes(b [2]byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
