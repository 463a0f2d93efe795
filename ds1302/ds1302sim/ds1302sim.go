// Package ds1302sim emulates the bus side of a DS1302 so the driver and code built on it can be tested without
// hardware. A Chip implements drivers.SPI; Chip.Pin and Chip.Timer return the CE line and the CE inactive timer that
// go with it.
//
// The emulation follows the datasheet: commands need bit 7 set, writes other than to the write protect register are
// ignored while WP is set, and a clock burst write only takes effect once all eight registers have been sent. Time
// does not advance on its own.
package ds1302sim

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var ErrNotSelected = errors.New("ds1302sim: transfer with CE low")

// Register file indexes, as addressed by the command byte.
const (
	Seconds = iota
	Minutes
	Hours
	Date
	Month
	Day
	Year
	WriteProtect
	TrickleCharge
	numRegs
)

const (
	ramSize    = 31
	burstIndex = 0x1F
	ramSelect  = 0x40
)

// Transaction is one CE high period as seen by the chip.
type Transaction struct {
	Cmd  byte
	Data []byte // bytes written after the command, or bytes sent back for a read
}

// Read reports whether the transaction was a read.
func (t Transaction) Read() bool { return t.Cmd&1 != 0 }

// Addr returns the command with the read bit cleared.
func (t Transaction) Addr() byte { return t.Cmd &^ 1 }

type Chip struct {
	Regs [numRegs]byte
	RAM  [ramSize]byte

	// StuckHalt keeps the clock halt flag set whatever is written to the seconds register.
	StuckHalt bool
	// BusErr, when set, is returned by every transfer and nothing reaches the chip.
	BusErr error
	// PinErr, when set, is returned by every CE change. The line still changes.
	PinErr error

	Log []Transaction
	// Transfers counts bus calls, including failed ones.
	Transfers int
	// GapViolations counts CE rising edges that were not preceded by a Wait after the last Start.
	GapViolations int
	Starts, Waits int
	LastGap       time.Duration

	ce     bool
	frame  []byte
	out    []byte
	armed  bool
	waited bool
}

var _ drivers.SPI = (*Chip)(nil)

// New returns a chip in its power-on state: oscillator halted, write protected, trickle charger off.
func New() *Chip {
	c := &Chip{}
	c.Regs[Seconds] = 0x80
	c.Regs[WriteProtect] = 0x80
	c.Regs[TrickleCharge] = 0x5C
	return c
}

// Reg returns the register at the given command address.
func (c *Chip) Reg(addr byte) byte {
	if addr&ramSelect != 0 {
		return c.RAM[index(addr)]
	}
	return c.Regs[index(addr)]
}

// SetReg sets the register at the given command address, bypassing write protection.
func (c *Chip) SetReg(addr, v byte) {
	if addr&ramSelect != 0 {
		c.RAM[index(addr)] = v
		return
	}
	c.Regs[index(addr)] = v
}

// Reset clears the transaction log and counters.
func (c *Chip) Reset() {
	c.Log = nil
	c.Transfers = 0
	c.GapViolations = 0
	c.Starts, c.Waits = 0, 0
}

func index(cmd byte) int { return int(cmd>>1) & 0x1F }

// Tx shifts w out to the chip and fills r with what it sends back.
func (c *Chip) Tx(w, r []byte) error {
	c.Transfers++
	if c.BusErr != nil {
		return c.BusErr
	}
	if !c.ce {
		return ErrNotSelected
	}
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		out := c.shift(b)
		if i < len(r) {
			r[i] = out
		}
	}
	return nil
}

func (c *Chip) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := c.Tx([]byte{b}, r[:])
	return r[0], err
}

func (c *Chip) shift(b byte) byte {
	if len(c.frame) == 0 {
		c.frame = append(c.frame, b)
		return 0
	}
	cmd := c.frame[0]
	pos := len(c.frame) - 1
	c.frame = append(c.frame, b)
	if cmd&0x80 == 0 {
		return 0
	}
	if cmd&1 == 0 {
		return 0
	}
	v := c.peek(cmd, pos)
	c.out = append(c.out, v)
	return v
}

func (c *Chip) peek(cmd byte, pos int) byte {
	i := index(cmd)
	if i == burstIndex {
		i = pos
	} else if pos > 0 {
		return 0
	}
	if cmd&ramSelect != 0 {
		if i >= ramSize {
			return 0
		}
		return c.RAM[i]
	}
	if i >= numRegs {
		return 0
	}
	return c.Regs[i]
}

func (c *Chip) protected() bool {
	return c.Regs[WriteProtect]&0x80 != 0
}

// commit applies the bytes written during the frame that just ended.
func (c *Chip) commit() {
	if len(c.frame) == 0 {
		return
	}
	cmd, data := c.frame[0], c.frame[1:]
	t := Transaction{Cmd: cmd}
	if cmd&1 != 0 {
		t.Data = c.out
	} else {
		t.Data = append([]byte(nil), data...)
	}
	c.Log = append(c.Log, t)
	c.frame, c.out = nil, nil

	if cmd&0x80 == 0 || cmd&1 != 0 || len(data) == 0 {
		return
	}
	i := index(cmd)
	switch {
	case cmd&ramSelect != 0 && i == burstIndex:
		if c.protected() {
			return
		}
		copy(c.RAM[:], data)
	case cmd&ramSelect != 0:
		if i < ramSize && !c.protected() {
			c.RAM[i] = data[0]
		}
	case i == burstIndex:
		if c.protected() || len(data) < 8 {
			return
		}
		for j := 0; j < 8; j++ {
			c.writeReg(j, data[j])
		}
	case i == WriteProtect:
		c.Regs[WriteProtect] = data[0] & 0x80
	case i < numRegs && !c.protected():
		c.writeReg(i, data[0])
	}
}

func (c *Chip) writeReg(i int, v byte) {
	if i == Seconds && c.StuckHalt {
		v |= 0x80
	}
	if i == WriteProtect {
		v &= 0x80
	}
	c.Regs[i] = v
}

// Pin returns the CE line of the chip.
func (c *Chip) Pin() Pin { return Pin{c} }

// Timer returns a fake CE inactive timer that never blocks and records its use.
func (c *Chip) Timer() Timer { return Timer{c} }

type Pin struct{ c *Chip }

func (p Pin) Set(high bool) error {
	c := p.c
	if high && !c.ce {
		if c.armed && !c.waited {
			c.GapViolations++
		}
		c.frame, c.out = nil, nil
	}
	if !high && c.ce {
		c.commit()
	}
	c.ce = high
	return c.PinErr
}

type Timer struct{ c *Chip }

func (t Timer) Start(d time.Duration) {
	t.c.Starts++
	t.c.LastGap = d
	t.c.armed = true
	t.c.waited = false
}

func (t Timer) Wait() {
	t.c.Waits++
	t.c.waited = true
}
