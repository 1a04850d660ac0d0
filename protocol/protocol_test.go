package protocol

import (
	"testing"

	"tempreader-go/types"
)

func TestWire_NegativeWraparound(t *testing.T) {
	// -28.00 encodes as 65536-2800.
	if got := EncodeWire(types.Temp(-2800)); got != 62736 {
		t.Fatalf("EncodeWire(-28.00) = %d, want 62736", got)
	}
	if got := DecodeWire(62736); got != types.Temp(-2800) {
		t.Fatalf("DecodeWire(62736) = %v, want -28.00", got)
	}
}

func TestWire_RoundTrip(t *testing.T) {
	for _, v := range []types.Temp{0, 1, -1, 7245, -2800, 25500, -32768 / 1} {
		if got := DecodeWire(EncodeWire(v)); got != v {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}
}

func TestWire_DecodeAbove32767IsNegative(t *testing.T) {
	if got := DecodeWire(32768); got >= 0 {
		t.Fatalf("DecodeWire(32768) = %v, want negative", got)
	}
	if got := DecodeWire(32767); got != types.Temp(32767) {
		t.Fatalf("DecodeWire(32767) = %v, want 327.67", got)
	}
}

func TestBytes_BigEndian(t *testing.T) {
	b := Bytes(62736) // 0xF510
	if b[0] != 0xF5 || b[1] != 0x10 {
		t.Fatalf("Bytes(62736) = %v, want {0xF5, 0x10}", b)
	}
	if FromBytes(b) != 62736 {
		t.Fatalf("FromBytes(%v) != 62736", b)
	}
}
