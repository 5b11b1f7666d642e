package joywing

import "github.com/photonicat/region_clock/internal/i2cbus"

// Seesaw module base registers.
const (
	StatusBase i2cbus.Opcode = 0x00
	GPIOBase   i2cbus.Opcode = 0x01
)

// Status module functions.
const (
	StatusHWID  i2cbus.Opcode = 0x01
	StatusSWRST i2cbus.Opcode = 0x7F
)

// GPIO module functions. Every GPIO write carries a 4-byte big-endian pin mask.
const (
	GPIODirClr    i2cbus.Opcode = 0x03 // pins become inputs
	GPIORead      i2cbus.Opcode = 0x04 // bulk read of all 32 pins
	GPIOSet       i2cbus.Opcode = 0x05 // output latch high: pull-up when pull is enabled
	GPIOIntEnSet  i2cbus.Opcode = 0x08
	GPIOPullEnSet i2cbus.Opcode = 0x0B
)

// Chip identifiers reported by StatusHWID.
const (
	HWIDSAMD09    byte = 0x55
	HWIDATtiny8x7 byte = 0x87
)

// swrstMagic is the payload that triggers a software reset.
const swrstMagic byte = 0xFF

var knownChips = map[byte]string{
	HWIDSAMD09:    "SAMD09",
	HWIDATtiny8x7: "ATtiny8x7",
}
