// cmd/boardtest/main.go
//
// Hardware bring-up check. Exercises each board resource directly, without
// the bus or the services, and reports pass/fail per step over the default
// output. Runs against the simulated rig on a host build.
package main

import (
	"time"

	"tempreader-go/platform"
)

// ---------- Configuration ----------

const (
	scratchAddr = 0x20 // EEPROM cell used for the write/read probe
	readTries   = 3

	inRangePin  = 16
	outRangePin = 17

	blinkCount = 4
	blinkDelay = 250 * time.Millisecond
)

func main() {
	time.Sleep(2 * time.Second)
	println("[boardtest] starting")

	rig, ok := platform.Default()
	if !ok {
		println("[boardtest] FAIL: no board rig")
		return
	}

	pass := 0
	fail := 0
	step := func(name string, err error) {
		if err != nil {
			fail++
			println("[boardtest] FAIL:", name, "-", err.Error())
			return
		}
		pass++
		println("[boardtest] ok:", name)
	}

	step("eeprom probe", probeStorage(rig))
	step("thermometer read", probeThermometer(rig))
	step("display render", rig.Display.Render("8888"))
	step("indicator blink", blinkPins(rig))

	println("[boardtest] done:", pass, "passed,", fail, "failed")
}

// probeStorage writes a marker byte to a scratch cell and reads it back.
func probeStorage(rig platform.Rig) error {
	orig, err := rig.Storage.ReadByte(scratchAddr)
	if err != nil {
		return err
	}
	marker := orig ^ 0xA5
	if err := rig.Storage.WriteByte(scratchAddr, marker); err != nil {
		return err
	}
	got, err := rig.Storage.ReadByte(scratchAddr)
	if err != nil {
		return err
	}
	if got != marker {
		return errMismatch
	}
	// Put the cell back.
	return rig.Storage.WriteByte(scratchAddr, orig)
}

// probeThermometer runs one full trigger/collect cycle.
func probeThermometer(rig platform.Rig) error {
	after, err := rig.Therm.Trigger()
	if err != nil {
		return err
	}
	time.Sleep(after)

	var lastErr error
	for i := 0; i < readTries; i++ {
		v, err := rig.Therm.Collect()
		if err == nil {
			println("[boardtest] reading:", v.String(), "F")
			return nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return lastErr
}

func blinkPins(rig platform.Rig) error {
	in := rig.Pin(inRangePin)
	out := rig.Pin(outRangePin)
	if err := in.ConfigureOutput(false); err != nil {
		return err
	}
	if err := out.ConfigureOutput(false); err != nil {
		return err
	}
	for i := 0; i < blinkCount; i++ {
		in.Toggle()
		out.Toggle()
		time.Sleep(blinkDelay)
	}
	in.Set(false)
	out.Set(false)
	return nil
}

type constErr string

func (e constErr) Error() string { return string(e) }

const errMismatch = constErr("readback mismatch")
