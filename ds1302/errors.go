package ds1302

import "errors"

var (
	// ErrInvalidParameter is returned before any bus activity for a RAM index
	// outside 0-30 or an unknown trickle charger setting.
	ErrInvalidParameter = errors.New("ds1302: invalid parameter")

	// ErrPowerOn means the clock halt flag was still set after clearing it.
	// The chip is considered not working.
	ErrPowerOn = errors.New("ds1302: clock halt flag did not clear")

	// ErrNotConfigured is returned by every operation until Configure succeeds, and after Destroy.
	ErrNotConfigured = errors.New("ds1302: device not configured")
)

// BusError reports a failed bus transfer. Err is the error returned by the bus.
type BusError struct {
	Op  string // "read" or "write"
	Reg uint8
	Err error
}

func (e *BusError) Error() string {
	const hex = "0123456789ABCDEF"
	return "ds1302: " + e.Op + " 0x" + string([]byte{hex[e.Reg>>4], hex[e.Reg&0x0F]}) + ": " + e.Err.Error()
}

func (e *BusError) Unwrap() error { return e.Err }
