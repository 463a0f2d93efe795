package rtcreport

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/tinygo-drivers/ds1302"
	"github.com/ajanata/tinygo-drivers/ds1302/ds1302sim"
)

func TestRead(t *testing.T) {
	c := qt.New(t)
	chip := ds1302sim.New()
	dev := ds1302.New(chip, chip.Pin(), chip.Timer())
	c.Assert(dev.Configure(ds1302.Config{HourMode: ds1302.Mode12}), qt.IsNil)
	when := time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)
	c.Assert(dev.Set(when), qt.IsNil)

	r, err := Read("pico-1", dev)
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.DeepEquals, Reading{Device: "pico-1", Time: when, Mode: ds1302.Mode12})
	c.Assert(string(r.Marshal()), qt.Equals, "pico-1 2025-01-02T15:04:05Z 12h run")
}

func TestParse(t *testing.T) {
	c := qt.New(t)
	r, err := Parse([]byte("shed 2024-02-29T23:00:01Z 24h halt\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(r.Device, qt.Equals, "shed")
	c.Assert(r.Time.Equal(time.Date(2024, time.February, 29, 23, 0, 1, 0, time.UTC)), qt.IsTrue)
	c.Assert(r.Mode, qt.Equals, ds1302.Mode24)
	c.Assert(r.Halted, qt.IsTrue)

	back, err := Parse(r.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(back.Time.Equal(r.Time), qt.IsTrue)
	c.Assert(back.Halted, qt.IsTrue)
}

func TestParseMalformed(t *testing.T) {
	c := qt.New(t)
	for _, p := range []string{
		"",
		"shed 2024-02-29T23:00:01Z 24h",
		"shed yesterday 24h run",
		"shed 2024-02-29T23:00:01Z 36h run",
		"shed 2024-02-29T23:00:01Z 24h maybe",
	} {
		_, err := Parse([]byte(p))
		c.Assert(err, qt.ErrorIs, ErrMalformed, qt.Commentf("payload %q", p))
	}
}

func TestDrift(t *testing.T) {
	c := qt.New(t)
	r := Reading{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.Assert(r.Drift(r.Time.Add(3*time.Second)), qt.Equals, 3*time.Second)
	c.Assert(r.Drift(r.Time.Add(-time.Second)), qt.Equals, -time.Second)
}
