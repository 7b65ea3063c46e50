package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x00, 0x13, 0x0013},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 7, true},
		{0b10101010, 8, false},
	}

	for _, tt := range tests {
		if got := IsSet(tt.index, tt.byte); got != tt.expected {
			t.Errorf("IsSet(%d, %08b) = %v; want %v", tt.index, tt.byte, got, tt.expected)
		}
	}
}

func TestLowHigh(t *testing.T) {
	if Low(0x7003) != 0x03 || High(0x7003) != 0x70 {
		t.Errorf("Low/High(0x7003) = %02X/%02X; want 03/70", Low(0x7003), High(0x7003))
	}
}

func TestDisplace(t *testing.T) {
	tests := []struct {
		address  uint16
		offset   uint8
		expected uint16
	}{
		{0x001D, 0xFA, 0x0017}, // jr z, -6
		{0x003B, 0xE6, 0x0021}, // djnz -26
		{0x0041, 0xD6, 0x0017}, // jr -42
		{0x0000, 0x02, 0x0002},
	}

	for _, tt := range tests {
		if got := Displace(tt.address, tt.offset); got != tt.expected {
			t.Errorf("Displace(%04X, %02X) = %04X; want %04X", tt.address, tt.offset, got, tt.expected)
		}
	}
}
