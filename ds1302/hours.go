package ds1302

// HourMode selects how the chip counts hours.
type HourMode uint8

const (
	Mode24 HourMode = iota
	Mode12
)

func (m HourMode) valid() bool {
	return m == Mode24 || m == Mode12
}

func (m HourMode) String() string {
	if m == Mode12 {
		return "12h"
	}
	return "24h"
}

// Period tags an hour value as a 24-hour reading or the half of a 12-hour day.
type Period uint8

const (
	H24 Period = iota
	AM
	PM
)

// Hours is an hour reading as the chip stores it: either 0-23 (H24) or 1-12
// with AM/PM. Values are not range checked; out of range hours encode garbage.
type Hours struct {
	Hour   uint8
	Period Period
}

func Hour24(h uint8) Hours   { return Hours{Hour: h, Period: H24} }
func Hour12AM(h uint8) Hours { return Hours{Hour: h, Period: AM} }
func Hour12PM(h uint8) Hours { return Hours{Hour: h, Period: PM} }

// Mode reports the hour mode the value is expressed in.
func (h Hours) Mode() HourMode {
	if h.Period == H24 {
		return Mode24
	}
	return Mode12
}

// Wall returns the hour of the day, 0-23.
func (h Hours) Wall() uint8 {
	return h.In(Mode24).Hour
}

// In converts h to the given mode, keeping the wall-clock hour. Any mode other than Mode12 is treated as Mode24.
func (h Hours) In(mode HourMode) Hours {
	if mode != Mode12 {
		mode = Mode24
	}
	if h.Mode() == mode {
		return h
	}
	if mode == Mode12 {
		switch {
		case h.Hour == 0:
			return Hour12AM(12)
		case h.Hour < 12:
			return Hour12AM(h.Hour)
		case h.Hour == 12:
			return Hour12PM(12)
		default:
			return Hour12PM(h.Hour - 12)
		}
	}
	hour := h.Hour
	if hour == 12 {
		hour = 0
	}
	if h.Period == PM {
		hour += 12
	}
	return Hour24(hour)
}

// Encode packs h into the hours register format.
func (h Hours) Encode() uint8 {
	b := decToBcd(h.Hour)
	switch h.Period {
	case AM:
		b |= hour12Bit
	case PM:
		b |= hour12Bit | hourPMBit
	}
	return b
}

// DecodeHours unpacks an hours register value.
func DecodeHours(b uint8) Hours {
	if b&hour12Bit == 0 {
		return Hour24(bcdToDec(b))
	}
	hour := bcdToDec(b &^ (hour12Bit | hourPMBit))
	if b&hourPMBit != 0 {
		return Hour12PM(hour)
	}
	return Hour12AM(hour)
}

func (h Hours) String() string {
	s := string([]byte{'0' + h.Hour/10, '0' + h.Hour%10})
	switch h.Period {
	case AM:
		return s + "am"
	case PM:
		return s + "pm"
	}
	return s
}

// decToBcd converts a decimal in 0-99 to packed BCD.
func decToBcd(dec uint8) uint8 {
	return ((dec / 10) << 4) + dec%10
}

// bcdToDec converts packed BCD to decimal. Non-BCD nibbles are not rejected.
func bcdToDec(bcd uint8) uint8 {
	return ((bcd>>4)&0x0F)*10 + bcd&0x0F
}
