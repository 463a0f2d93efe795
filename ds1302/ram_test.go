package ds1302

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/tinygo-drivers/ds1302/ds1302sim"
)

func TestRAMCell(t *testing.T) {
	c := qt.New(t)
	chip := ds1302sim.New()
	d := newDevice(c, chip, Mode24)

	c.Assert(d.WriteRAM(0, 0x11), qt.IsNil)
	c.Assert(d.WriteRAM(30, 0xEE), qt.IsNil)
	c.Assert(chip.Log[len(chip.Log)-1].Cmd, qt.Equals, byte(0xFC))
	c.Assert(chip.RAM[0], qt.Equals, byte(0x11))
	c.Assert(chip.RAM[30], qt.Equals, byte(0xEE))

	v, err := d.ReadRAM(30)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint8(0xEE))
	c.Assert(chip.Log[len(chip.Log)-1].Cmd, qt.Equals, byte(0xFD))
}

func TestRAMIndexOutOfRange(t *testing.T) {
	c := qt.New(t)
	chip := ds1302sim.New()
	d := newDevice(c, chip, Mode24)

	c.Assert(d.WriteRAM(31, 1), qt.ErrorIs, ErrInvalidParameter)
	_, err := d.ReadRAM(255)
	c.Assert(err, qt.ErrorIs, ErrInvalidParameter)
	c.Assert(chip.Transfers, qt.Equals, 0)
}

func TestRAMBurst(t *testing.T) {
	c := qt.New(t)
	chip := ds1302sim.New()
	d := newDevice(c, chip, Mode24)

	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i + 1)
	}
	n, err := d.WriteRAMBurst(data)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, RAMSize)
	c.Assert(chip.Log, qt.HasLen, 1)
	c.Assert(chip.Log[0].Cmd, qt.Equals, byte(RegRAMBurst))
	c.Assert(chip.Log[0].Data, qt.HasLen, RAMSize)
	c.Assert(chip.RAM[:], qt.DeepEquals, data[:RAMSize])

	buf := make([]byte, 8)
	n, err = d.ReadRAMBurst(buf)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 8)
	c.Assert(buf, qt.DeepEquals, data[:8])

	big := make([]byte, 64)
	n, err = d.ReadRAMBurst(big)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, RAMSize)
	c.Assert(big[:RAMSize], qt.DeepEquals, data[:RAMSize])

	chip.Reset()
	n, err = d.WriteRAMBurst(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 0)
	c.Assert(chip.Transfers, qt.Equals, 0)
}
