package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Nibble returns the low 4 bits of value.
func Nibble(value uint8) uint8 {
	return value & 0x0F
}

// Displace applies a signed 8 bit relative offset to a 16 bit address.
func Displace(address uint16, offset uint8) uint16 {
	return uint16(int32(address) + int32(int8(offset)))
}
