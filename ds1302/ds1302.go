// Package ds1302 implements a driver for the DS1302 trickle-charge timekeeping chip, a real-time clock/calendar with
// 31 bytes of battery-backed RAM on a three-wire serial interface. Every call is a transaction with the chip: nothing
// is cached apart from the configured hour mode. The DS1302 has no alarms or interrupts.
//
// The data line is shared for both directions, so the bus must be a three-wire SPI (or a bit-banged one) sending LSB
// first. CE is active high and must stay low for at least 4µs between transactions, which the driver enforces with a
// Timer.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS1302.pdf
package ds1302

import (
	"time"

	"tinygo.org/x/drivers"
)

type state uint8

const (
	stateNew state = iota
	stateReady
	stateDestroyed
)

// Device wraps a DS1302 connected to an SPI bus and a CE pin. A Device is not safe for concurrent use.
type Device struct {
	bus   drivers.SPI
	ce    Pin
	timer Timer

	mode       HourMode
	onPinError func(error)
	state      state

	w [RAMSize + 1]byte
	r [RAMSize + 1]byte
}

// Config holds the settings applied by Configure. The zero value selects 24 hour mode.
type Config struct {
	// HourMode is applied during Configure, converting the hour currently held by the chip.
	HourMode HourMode
	// OnPinError, if set, is called with every error returned by the CE pin. Pin errors never fail an operation.
	OnPinError func(error)
}

// Clock is the time of day.
type Clock struct {
	Hours   Hours
	Minutes uint8
	Seconds uint8
}

// Calendar is the date. Day is the day of the week, 1-7; Now and Set treat 1 as Sunday. Year is stored as an offset
// from 2000, so only 2000-2099 can be represented.
type Calendar struct {
	Day   uint8
	Date  uint8
	Month uint8
	Year  uint16
}

// New creates a new driver. The bus and CE pin must already be configured; CE should be low. If timer is nil the
// driver busy-waits using NewTimer. Call Configure before use.
func New(bus drivers.SPI, ce Pin, timer Timer) *Device {
	if timer == nil {
		timer = NewTimer()
	}
	return &Device{
		bus:   bus,
		ce:    ce,
		timer: timer,
	}
}

// Configure starts the oscillator if it was halted and applies the hour mode. If the clock halt flag cannot be
// cleared it returns ErrPowerOn. After any failure the device is unusable until Configure succeeds, even if it
// was configured before.
func (d *Device) Configure(c Config) error {
	if d.state == stateDestroyed {
		return ErrNotConfigured
	}
	if !c.HourMode.valid() {
		return ErrInvalidParameter
	}
	d.state = stateNew
	d.onPinError = c.OnPinError

	sec, err := d.readReg(RegSeconds)
	if err != nil {
		return err
	}
	if sec&clockHaltFlag != 0 {
		// clearing CH also zeroes the seconds
		if err := d.writeReg(RegSeconds, 0); err != nil {
			return err
		}
		sec, err = d.readReg(RegSeconds)
		if err != nil {
			return err
		}
		if sec&clockHaltFlag != 0 {
			return ErrPowerOn
		}
	}
	if err := d.setHourMode(c.HourMode); err != nil {
		return err
	}
	d.state = stateReady
	return nil
}

// Destroy hands the bus, CE pin and timer back to the caller. The device cannot be used afterwards.
func (d *Device) Destroy() (drivers.SPI, Pin, Timer) {
	bus, ce, timer := d.bus, d.ce, d.timer
	d.bus, d.ce, d.timer = nil, nil, nil
	d.state = stateDestroyed
	return bus, ce, timer
}

func (d *Device) checkReady() error {
	if d.state != stateReady {
		return ErrNotConfigured
	}
	return nil
}

func (d *Device) readDec(reg uint8) (uint8, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	b, err := d.readReg(reg)
	return bcdToDec(b), err
}

func (d *Device) writeDec(reg, val uint8) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.writeReg(reg, decToBcd(val))
}

// Seconds returns the seconds, 0-59.
func (d *Device) Seconds() (uint8, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	b, err := d.readReg(RegSeconds)
	return bcdToDec(b &^ clockHaltFlag), err
}

func (d *Device) Minutes() (uint8, error) { return d.readDec(RegMinutes) }

func (d *Device) Hours() (Hours, error) {
	if err := d.checkReady(); err != nil {
		return Hours{}, err
	}
	b, err := d.readReg(RegHours)
	return DecodeHours(b), err
}

// Date returns the day of the month.
func (d *Device) Date() (uint8, error) { return d.readDec(RegDate) }

func (d *Device) Month() (uint8, error) { return d.readDec(RegMonth) }

// Day returns the day of the week, 1-7.
func (d *Device) Day() (uint8, error) { return d.readDec(RegDay) }

// Year returns the full year, 2000-2099.
func (d *Device) Year() (uint16, error) {
	y, err := d.readDec(RegYear)
	if err != nil {
		return 0, err
	}
	return epoch + uint16(y), nil
}

// SetSeconds sets the seconds. This also clears the clock halt flag.
func (d *Device) SetSeconds(s uint8) error { return d.writeDec(RegSeconds, s) }

func (d *Device) SetMinutes(m uint8) error { return d.writeDec(RegMinutes, m) }

// SetHours writes h converted to the configured hour mode.
func (d *Device) SetHours(h Hours) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.writeReg(RegHours, h.In(d.mode).Encode())
}

func (d *Device) SetDate(date uint8) error { return d.writeDec(RegDate, date) }

func (d *Device) SetMonth(m uint8) error { return d.writeDec(RegMonth, m) }

func (d *Device) SetDay(day uint8) error { return d.writeDec(RegDay, day) }

// SetYear sets the year. Years before 2000 are stored as 2000.
func (d *Device) SetYear(y uint16) error { return d.writeDec(RegYear, yearOffset(y)) }

func yearOffset(y uint16) uint8 {
	if y < epoch {
		return 0
	}
	return uint8(y - epoch)
}

// Clock reads the time of day in one burst.
func (d *Device) Clock() (Clock, error) {
	clock, _, err := d.ClockCalendar()
	return clock, err
}

// Calendar reads the date in one burst.
func (d *Device) Calendar() (Calendar, error) {
	_, cal, err := d.ClockCalendar()
	return cal, err
}

// ClockCalendar reads the time and date in one burst, so both are consistent.
func (d *Device) ClockCalendar() (Clock, Calendar, error) {
	if err := d.checkReady(); err != nil {
		return Clock{}, Calendar{}, err
	}
	buf, err := d.burstRead(RegClockBurst, clockBurstSize-1)
	if err != nil {
		return Clock{}, Calendar{}, err
	}
	clock := Clock{
		Seconds: bcdToDec(buf[0] &^ clockHaltFlag),
		Minutes: bcdToDec(buf[1]),
		Hours:   DecodeHours(buf[2]),
	}
	cal := Calendar{
		Date:  bcdToDec(buf[3]),
		Month: bcdToDec(buf[4]),
		Day:   bcdToDec(buf[5]),
		Year:  epoch + uint16(bcdToDec(buf[6])),
	}
	return clock, cal, nil
}

// SetClock writes hours, minutes and seconds one register at a time. The
// calendar registers are left alone, but the update is not atomic; use
// SetClockCalendar when that matters.
func (d *Device) SetClock(c Clock) error {
	if err := d.SetHours(c.Hours); err != nil {
		return err
	}
	if err := d.SetMinutes(c.Minutes); err != nil {
		return err
	}
	return d.SetSeconds(c.Seconds)
}

// SetCalendar writes year, month, date and day one register at a time.
func (d *Device) SetCalendar(c Calendar) error {
	if err := d.SetYear(c.Year); err != nil {
		return err
	}
	if err := d.SetMonth(c.Month); err != nil {
		return err
	}
	if err := d.SetDate(c.Date); err != nil {
		return err
	}
	return d.SetDay(c.Day)
}

// SetClockCalendar writes all clock and calendar registers in a single burst.
// The burst also writes 0 to the write protect register. It does not clear
// write protection first; the chip ignores the burst while WP is set.
func (d *Device) SetClockCalendar(c Clock, cal Calendar) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	buf := [clockBurstSize]byte{
		decToBcd(c.Seconds),
		decToBcd(c.Minutes),
		c.Hours.In(d.mode).Encode(),
		decToBcd(cal.Date),
		decToBcd(cal.Month),
		decToBcd(cal.Day),
		decToBcd(yearOffset(cal.Year)),
		0, // write protect off
	}
	return d.burstWrite(RegClockBurst, buf[:])
}

// HourMode returns the hour mode the driver writes hours in.
func (d *Device) HourMode() HourMode {
	return d.mode
}

// SetHourMode switches the chip between 12 and 24 hour mode, converting the current hour so the time of day is kept.
// An unknown mode returns ErrInvalidParameter without touching the chip.
func (d *Device) SetHourMode(mode HourMode) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if !mode.valid() {
		return ErrInvalidParameter
	}
	return d.setHourMode(mode)
}

func (d *Device) setHourMode(mode HourMode) error {
	b, err := d.readReg(RegHours)
	if err != nil {
		return err
	}
	d.mode = mode
	h := DecodeHours(b)
	if h.Mode() == mode {
		return nil
	}
	return d.writeReg(RegHours, h.In(mode).Encode())
}

// Now reads the clock and calendar and returns them as a UTC time.
func (d *Device) Now() (time.Time, error) {
	c, cal, err := d.ClockCalendar()
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(int(cal.Year), time.Month(cal.Month), int(cal.Date),
		int(c.Hours.Wall()), int(c.Minutes), int(c.Seconds), 0, time.UTC)
	return t, nil
}

// Set writes t, truncated to the second, in a single burst. The day of the week is stored with Sunday as 1. Write
// protection is cleared first.
func (d *Device) Set(t time.Time) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if err := d.unlock(); err != nil {
		return err
	}
	c := Clock{
		Hours:   Hour24(uint8(t.Hour())),
		Minutes: uint8(t.Minute()),
		Seconds: uint8(t.Second()),
	}
	cal := Calendar{
		Day:   uint8(t.Weekday()) + 1,
		Date:  uint8(t.Day()),
		Month: uint8(t.Month()),
		Year:  uint16(t.Year()),
	}
	return d.SetClockCalendar(c, cal)
}

// Halted reports whether the oscillator is stopped.
func (d *Device) Halted() (bool, error) {
	if err := d.checkReady(); err != nil {
		return false, err
	}
	b, err := d.readReg(RegSeconds)
	return b&clockHaltFlag != 0, err
}

// WriteProtected reports whether the write protect bit is set.
func (d *Device) WriteProtected() (bool, error) {
	if err := d.checkReady(); err != nil {
		return false, err
	}
	b, err := d.readReg(RegWriteProtect)
	return b&writeProtectBit != 0, err
}

// SetWriteProtect sets or clears the write protect bit. The write protect
// register is always writable.
func (d *Device) SetWriteProtect(on bool) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	var b uint8
	if on {
		b = writeProtectBit
	}
	return d.writeRaw(RegWriteProtect, b)
}
