package ds1302

// ReadRAM reads RAM cell i, 0-30.
func (d *Device) ReadRAM(i uint8) (uint8, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	if i >= RAMSize {
		return 0, ErrInvalidParameter
	}
	return d.readReg(ramAddr(i))
}

// WriteRAM writes v to RAM cell i, 0-30.
func (d *Device) WriteRAM(i, v uint8) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if i >= RAMSize {
		return ErrInvalidParameter
	}
	return d.writeReg(ramAddr(i), v)
}

// ReadRAMBurst fills buf from the start of RAM in one transaction and returns the number of bytes read. At most
// RAMSize bytes are read.
func (d *Device) ReadRAMBurst(buf []byte) (int, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	n := len(buf)
	if n > RAMSize {
		n = RAMSize
	}
	if n == 0 {
		return 0, nil
	}
	data, err := d.burstRead(RegRAMBurst, n)
	if err != nil {
		return 0, err
	}
	return copy(buf, data), nil
}

// WriteRAMBurst writes buf to the start of RAM in one transaction. Anything past RAMSize bytes is dropped; the number
// of bytes written is returned. Like SetClockCalendar, it does not clear write protection.
func (d *Device) WriteRAMBurst(buf []byte) (int, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	if len(buf) > RAMSize {
		buf = buf[:RAMSize]
	}
	if len(buf) == 0 {
		return 0, nil
	}
	if err := d.burstWrite(RegRAMBurst, buf); err != nil {
		return 0, err
	}
	return len(buf), nil
}
