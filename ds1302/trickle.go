package ds1302

// Diode selects how many diodes are in the trickle charge path (DS bits).
type Diode uint8

const (
	DiodeNone Diode = 0
	OneDiode  Diode = 0b01 // 0.7V drop
	TwoDiodes Diode = 0b10 // 1.4V drop
)

// Resistor selects the series resistor in the trickle charge path (RS bits).
type Resistor uint8

const (
	ResistorNone Resistor = 0
	R2K          Resistor = 0b01
	R4K          Resistor = 0b10
	R8K          Resistor = 0b11
)

const (
	tcsEnable  = 0b1010_0000
	tcsMask    = 0b1111_0000
	tcsDisable = 0x5C // power-on default
)

// TrickleChargeConfig is the decoded trickle charge register. Diode and Resistor are only set when Enabled.
type TrickleChargeConfig struct {
	Enabled  bool
	Diode    Diode
	Resistor Resistor
}

func (d Diode) valid() bool    { return d == OneDiode || d == TwoDiodes }
func (r Resistor) valid() bool { return r >= R2K && r <= R8K }

func encodeTrickle(d Diode, r Resistor) uint8 {
	return tcsEnable | uint8(d)<<2 | uint8(r)
}

// decodeTrickle treats anything but 1010 in the top nibble with a valid diode and resistor selection as disabled.
func decodeTrickle(b uint8) TrickleChargeConfig {
	d := Diode(b>>2) & 0b11
	r := Resistor(b) & 0b11
	if b&tcsMask != tcsEnable || !d.valid() || !r.valid() {
		return TrickleChargeConfig{}
	}
	return TrickleChargeConfig{Enabled: true, Diode: d, Resistor: r}
}

// EnableTrickleCharge turns on the trickle charger for a backup battery or supercap on VCC1. The charge current is
// roughly (VCC2 - diode drop - VCC1) / R.
func (d *Device) EnableTrickleCharge(diode Diode, r Resistor) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if !diode.valid() || !r.valid() {
		return ErrInvalidParameter
	}
	return d.writeReg(RegTrickleCharge, encodeTrickle(diode, r))
}

func (d *Device) DisableTrickleCharge() error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.writeReg(RegTrickleCharge, tcsDisable)
}

// TrickleCharge reads the trickle charger configuration.
func (d *Device) TrickleCharge() (TrickleChargeConfig, error) {
	if err := d.checkReady(); err != nil {
		return TrickleChargeConfig{}, err
	}
	b, err := d.readReg(RegTrickleCharge)
	if err != nil {
		return TrickleChargeConfig{}, err
	}
	return decodeTrickle(b), nil
}

func (d *Device) TrickleChargeEnabled() (bool, error) {
	tc, err := d.TrickleCharge()
	return tc.Enabled, err
}
