package i2cbus

import "encoding/binary"

// Opcode is a named register base or sub-function byte. Each driver keeps its
// own closed table of Opcode constants.
type Opcode uint8

// Frame builds a register write: base, sub-function, then the payload bytes.
func Frame(base, fn Opcode, payload ...byte) []byte {
	b := make([]byte, 0, 2+len(payload))
	b = append(b, byte(base), byte(fn))
	return append(b, payload...)
}

// EncodeWord serialises a 32-bit register value most significant byte first,
// the order in which the peripheral shifts it out on the wire.
func EncodeWord(v uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}

// DecodeWord is the inverse of EncodeWord.
func DecodeWord(b [4]byte) uint32 {
	return binary.BigEndian.Uint32(b[:])
}

// DecodeHalf reads a big-endian 16-bit value, as returned by the light sensor.
func DecodeHalf(b [2]byte) uint16 {
	return binary.BigEndian.Uint16(b[:])
}
