//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"os"
	"time"

	"tempreader-go/types"
)

// Default returns a simulated rig so the firmware can be exercised on a
// development host. The thermometer drifts around room temperature, storage
// is an in-memory array, and the console runs over stdin/stdout. There is no
// two-wire peripheral controller off-target.
func Default() (Rig, bool) {
	return Rig{
		Therm:   &simTherm{temp: 7200},
		Storage: newSimStorage(),
		Display: simDisplay{},
		Console: stdio{},
		Pin:     func(n int) types.GPIOPin { return &simPin{n: n} },
	}, true
}

// ----- simulated thermometer -----

type simTherm struct {
	temp  types.Temp
	step  int
	armed bool
}

func (s *simTherm) Trigger() (time.Duration, error) {
	s.armed = true
	return 50 * time.Millisecond, nil
}

func (s *simTherm) Collect() (types.Temp, error) {
	if !s.armed {
		return 0, nil
	}
	s.armed = false
	// Triangle wave, +-2.00F around the starting point.
	s.step++
	phase := s.step % 16
	if phase < 8 {
		s.temp += 25
	} else {
		s.temp -= 25
	}
	return s.temp, nil
}

// ----- simulated storage -----

type simStorage struct {
	mem [64]byte
}

func newSimStorage() *simStorage {
	return &simStorage{}
}

func (s *simStorage) ReadByte(addr uint16) (byte, error) {
	return s.mem[int(addr)%len(s.mem)], nil
}

func (s *simStorage) WriteByte(addr uint16, value byte) error {
	s.mem[int(addr)%len(s.mem)] = value
	return nil
}

// ----- simulated display and pins -----

type simDisplay struct{}

func (simDisplay) Render(text string) error {
	println("display:", text)
	return nil
}

type simPin struct {
	n     int
	level bool
}

func (p *simPin) ConfigureOutput(initial bool) error {
	p.level = initial
	return nil
}

func (p *simPin) ConfigureInput(pullUp bool) error {
	p.level = pullUp
	return nil
}

func (p *simPin) Set(high bool) { p.level = high }
func (p *simPin) Get() bool     { return p.level }
func (p *simPin) Toggle()       { p.level = !p.level }
func (p *simPin) Number() int   { return p.n }

// ----- console transport -----

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

var _ io.ReadWriter = stdio{}
