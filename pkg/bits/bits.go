// Package bits provides helpers for the 1-indexed bit numbering used throughout
// ISO/IEC 7816 (bit 8 is the most significant bit, bit 1 the least).
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// HighNibble returns bits 8-5 shifted down (e.g., the presence mask of T0/TDi).
func HighNibble(b byte) byte {
	return GetRange(b, 8, 5)
}

// LowNibble returns bits 4-1 (e.g., the protocol T of TDi).
func LowNibble(b byte) byte {
	return GetRange(b, 4, 1)
}

// Count returns the number of set bits.
func Count(b byte) int {
	n := 0
	for i := uint(1); i <= 8; i++ {
		if IsSet(b, i) {
			n++
		}
	}
	return n
}
