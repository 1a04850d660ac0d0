package types

// Temp is a temperature in hundredths of a degree (two decimal places,
// exact). The scale it is expressed in (°F or °C) is contextual; sensor
// readings and stored records are °F, conversion to °C is explicit.
type Temp int32

// Centi returns the raw hundredths count.
func (t Temp) Centi() int32 { return int32(t) }

// Float64 is for tests and host-side display only; the firmware data path
// stays in integer hundredths.
func (t Temp) Float64() float64 { return float64(t) / 100 }

// FromFloat64 rounds a float temperature to hundredths.
func FromFloat64(f float64) Temp {
	if f < 0 {
		return Temp(f*100 - 0.5)
	}
	return Temp(f*100 + 0.5)
}

// FromParts reassembles a temperature from a stored record's fields:
// sign * (whole + hundredths/100).
func FromParts(whole uint8, hundredths uint8, negative bool) Temp {
	v := Temp(int32(whole)*100 + int32(hundredths))
	if negative {
		return -v
	}
	return v
}

// Split decomposes into whole-degree magnitude, fractional hundredths and a
// sign flag. The whole part is returned unclamped; the persisted encoding is
// one byte wide and wraps silently outside 0..255 (known limitation).
func (t Temp) Split() (whole int32, hundredths uint8, negative bool) {
	v := int32(t)
	if v < 0 {
		negative = true
		v = -v
	}
	return v / 100, uint8(v % 100), negative
}

// ToCelsius converts a °F value: (t − 32) × 5/9, truncated toward zero in
// hundredths. 100.00°F yields 37.77°C.
func (t Temp) ToCelsius() Temp {
	return (t - 3200) * 5 / 9
}

// FromCelsius converts a °C value to °F: t × 9/5 + 32, truncated.
func FromCelsius(c Temp) Temp {
	return c*9/5 + 3200
}

// String renders the value with exactly two decimals, e.g. "72.45", "-0.50".
// Hand-rolled so MCU builds do not pull in fmt.
func (t Temp) String() string {
	v := int32(t)
	neg := v < 0
	if neg {
		v = -v
	}
	whole, frac := v/100, v%100

	var buf [12]byte
	i := len(buf)
	i--
	buf[i] = byte('0' + frac%10)
	i--
	buf[i] = byte('0' + frac/10)
	i--
	buf[i] = '.'
	if whole == 0 {
		i--
		buf[i] = '0'
	}
	for whole > 0 {
		i--
		buf[i] = byte('0' + whole%10)
		whole /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
