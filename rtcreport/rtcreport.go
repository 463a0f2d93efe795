// Package rtcreport defines the payload a device publishes with its RTC reading, and the drift calculation done by
// whoever receives it. The payload is one line of text so it can be built on a microcontroller without reflection:
//
//	<device> <RFC3339 time> <12h|24h> <run|halt>
package rtcreport

import (
	"errors"
	"strings"
	"time"

	"github.com/ajanata/tinygo-drivers/ds1302"
)

var ErrMalformed = errors.New("rtcreport: malformed payload")

type Reading struct {
	Device string
	Time   time.Time
	Mode   ds1302.HourMode
	Halted bool
}

// Read takes a reading from dev.
func Read(name string, dev *ds1302.Device) (Reading, error) {
	t, err := dev.Now()
	if err != nil {
		return Reading{}, err
	}
	halted, err := dev.Halted()
	if err != nil {
		return Reading{}, err
	}
	return Reading{Device: name, Time: t, Mode: dev.HourMode(), Halted: halted}, nil
}

// AppendMarshal appends the payload for r to b.
func (r Reading) AppendMarshal(b []byte) []byte {
	b = append(b, r.Device...)
	b = append(b, ' ')
	b = r.Time.UTC().AppendFormat(b, time.RFC3339)
	b = append(b, ' ')
	b = append(b, r.Mode.String()...)
	if r.Halted {
		return append(b, " halt"...)
	}
	return append(b, " run"...)
}

func (r Reading) Marshal() []byte {
	return r.AppendMarshal(nil)
}

func Parse(payload []byte) (Reading, error) {
	f := strings.Fields(string(payload))
	if len(f) != 4 {
		return Reading{}, ErrMalformed
	}
	var r Reading
	r.Device = f[0]
	t, err := time.Parse(time.RFC3339, f[1])
	if err != nil {
		return Reading{}, ErrMalformed
	}
	r.Time = t.UTC()
	switch f[2] {
	case "24h":
		r.Mode = ds1302.Mode24
	case "12h":
		r.Mode = ds1302.Mode12
	default:
		return Reading{}, ErrMalformed
	}
	switch f[3] {
	case "run":
	case "halt":
		r.Halted = true
	default:
		return Reading{}, ErrMalformed
	}
	return r, nil
}

// Drift returns how far the RTC is behind now; negative when it runs ahead.
// The RTC only counts whole seconds, so up to a second of drift is noise.
func (r Reading) Drift(now time.Time) time.Duration {
	return now.Sub(r.Time)
}
