package ds1302

// Register addresses. These are the write addresses; reads set bit 0.
const (
	RegSeconds       = 0x80 // Seconds and clock halt flag
	RegMinutes       = 0x82
	RegHours         = 0x84 // Hours, 12/24 select and AM/PM
	RegDate          = 0x86 // Day of the month
	RegMonth         = 0x88
	RegDay           = 0x8A // Day of the week, 1-7
	RegYear          = 0x8C // Year offset from 2000
	RegWriteProtect  = 0x8E // Write protect bit
	RegTrickleCharge = 0x90 // Trickle charger select
	RegClockBurst    = 0xBE // All clock/calendar registers in one transaction
	RegRAM           = 0xC0 // First of the 31 RAM cells, cells are 2 apart
	RegRAMBurst      = 0xFE // All RAM cells in one transaction
)

const (
	readBit = 0x01

	clockHaltFlag   = 0x80
	writeProtectBit = 0x80
	hour12Bit       = 0x80
	hourPMBit       = 0x20

	// RAMSize is the number of battery-backed RAM cells.
	RAMSize = 31

	// clock burst payload: seconds, minutes, hours, date, month, day, year, WP
	clockBurstSize = 8

	epoch = 2000
)

// ramAddr returns the write address of RAM cell i.
func ramAddr(i uint8) uint8 {
	return RegRAM + i*2
}
