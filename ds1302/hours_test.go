package ds1302

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBCDRoundTrip(t *testing.T) {
	c := qt.New(t)
	for d := uint8(0); d < 100; d++ {
		c.Assert(bcdToDec(decToBcd(d)), qt.Equals, d, qt.Commentf("decimal %d", d))
	}
	c.Assert(decToBcd(59), qt.Equals, uint8(0x59))
	c.Assert(bcdToDec(0x31), qt.Equals, uint8(31))
	// no sanitising of bad nibbles
	c.Assert(bcdToDec(0x1F), qt.Equals, uint8(25))
}

var encodeTests = []struct {
	hours Hours
	enc   uint8
}{
	{Hour24(0), 0x00},
	{Hour24(15), 0x15},
	{Hour24(23), 0x23},
	{Hour12AM(11), 0x91},
	{Hour12AM(12), 0x92},
	{Hour12PM(3), 0xA3},
	{Hour12PM(12), 0xB2},
}

func TestHoursEncodeDecode(t *testing.T) {
	c := qt.New(t)
	for _, test := range encodeTests {
		c.Run(test.hours.String(), func(c *qt.C) {
			c.Assert(test.hours.Encode(), qt.Equals, test.enc)
			c.Assert(DecodeHours(test.enc), qt.Equals, test.hours)
		})
	}
}

var convertTests = []struct {
	h24 Hours
	h12 Hours
}{
	{Hour24(0), Hour12AM(12)},
	{Hour24(1), Hour12AM(1)},
	{Hour24(11), Hour12AM(11)},
	{Hour24(12), Hour12PM(12)},
	{Hour24(13), Hour12PM(1)},
	{Hour24(23), Hour12PM(11)},
}

func TestHoursConvert(t *testing.T) {
	c := qt.New(t)
	for _, test := range convertTests {
		c.Assert(test.h24.In(Mode12), qt.Equals, test.h12)
		c.Assert(test.h12.In(Mode24), qt.Equals, test.h24)
		c.Assert(test.h12.Wall(), qt.Equals, test.h24.Hour)
	}
	c.Assert(Hour12PM(5).In(Mode12), qt.Equals, Hour12PM(5))
	c.Assert(Hour24(5).In(Mode24), qt.Equals, Hour24(5))
	// unknown modes mean 24 hour
	c.Assert(Hour24(12).In(HourMode(7)), qt.Equals, Hour24(12))
	c.Assert(Hour12PM(12).In(HourMode(7)), qt.Equals, Hour24(12))
}

func TestHoursRoundTrip(t *testing.T) {
	c := qt.New(t)
	for h := uint8(0); h < 24; h++ {
		c.Assert(Hour24(h).In(Mode12).In(Mode24), qt.Equals, Hour24(h))
	}
	for h := uint8(1); h <= 12; h++ {
		c.Assert(Hour12AM(h).In(Mode24).In(Mode12), qt.Equals, Hour12AM(h))
		c.Assert(Hour12PM(h).In(Mode24).In(Mode12), qt.Equals, Hour12PM(h))
	}
}
