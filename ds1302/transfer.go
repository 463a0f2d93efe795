package ds1302

import (
	"time"
)

// Pin drives the CE line. Errors never abort a transaction; they are handed to
// Config.OnPinError when set.
type Pin interface {
	Set(high bool) error
}

// PinFunc adapts a setter that cannot fail, such as machine.Pin.Set.
type PinFunc func(high bool)

func (f PinFunc) Set(high bool) error {
	f(high)
	return nil
}

// Timer is a one-shot countdown used to keep CE low for at least
// ceInactive between transactions.
type Timer interface {
	// Start starts a countdown of d, replacing any pending one.
	Start(d time.Duration)
	// Wait blocks until the last countdown expired. It returns immediately if
	// none was started.
	Wait()
}

// NewTimer returns a Timer that busy-waits on time.Now.
func NewTimer() Timer {
	return &deadlineTimer{}
}

type deadlineTimer struct {
	deadline time.Time
}

func (t *deadlineTimer) Start(d time.Duration) {
	t.deadline = time.Now().Add(d)
}

func (t *deadlineTimer) Wait() {
	for time.Now().Before(t.deadline) {
	}
}

// ceInactive is the minimum CE low time between transactions.
const ceInactive = 4 * time.Microsecond

// transfer runs one CE framed transaction. r may be nil for writes.
func (d *Device) transfer(w, r []byte) error {
	d.timer.Wait()
	d.setCE(true)
	err := d.bus.Tx(w, r)
	d.setCE(false)
	d.timer.Start(ceInactive)
	return err
}

func (d *Device) setCE(high bool) {
	if err := d.ce.Set(high); err != nil && d.onPinError != nil {
		d.onPinError(err)
	}
}

// readReg reads one register.
func (d *Device) readReg(reg uint8) (uint8, error) {
	d.w[0] = reg | readBit
	d.w[1] = 0
	if err := d.transfer(d.w[:2], d.r[:2]); err != nil {
		return 0, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return d.r[1], nil
}

// writeRaw writes one register without looking at write protection.
func (d *Device) writeRaw(reg, val uint8) error {
	d.w[0] = reg
	d.w[1] = val
	if err := d.transfer(d.w[:2], nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// unlock clears the write protect bit if it is set. This is the first of the
// two steps of writeReg: one read of WP, plus one write when it was set.
func (d *Device) unlock() error {
	wp, err := d.readReg(RegWriteProtect)
	if err != nil {
		return err
	}
	if wp&writeProtectBit == 0 {
		return nil
	}
	return d.writeRaw(RegWriteProtect, 0)
}

// writeReg clears write protection and then writes one register.
func (d *Device) writeReg(reg, val uint8) error {
	if err := d.unlock(); err != nil {
		return err
	}
	return d.writeRaw(reg, val)
}

// burstRead reads n bytes starting at the burst register reg into d.r[1:n+1].
func (d *Device) burstRead(reg uint8, n int) ([]byte, error) {
	for i := range d.w[:n+1] {
		d.w[i] = 0
	}
	d.w[0] = reg | readBit
	if err := d.transfer(d.w[:n+1], d.r[:n+1]); err != nil {
		return nil, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return d.r[1 : n+1], nil
}

// burstWrite writes payload to the burst register reg in one transaction.
// Write protection is not checked: bursts are rejected by the chip while WP is
// set, callers clear it first.
func (d *Device) burstWrite(reg uint8, payload []byte) error {
	d.w[0] = reg
	n := copy(d.w[1:], payload)
	if err := d.transfer(d.w[:n+1], nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}
