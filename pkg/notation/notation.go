// Package notation converts between raw byte sequences and the textual
// hexadecimal notation used by operators and logs, e.g. "00 A4 04 00 02 3F 00".
//
// Text is only ever parsed here, at the boundary. Everything past this package
// works on []byte.
package notation

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOddLength is returned when a compact hex string has an odd number of digits.
var ErrOddLength = errors.New("odd number of hex digits")

// TokenError reports a token that is not exactly two hexadecimal digits.
type TokenError struct {
	Index int    // 0-based position of the token in the input
	Token string // offending token, verbatim
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid hex token %q at position %d", e.Token, e.Index)
}

// ParseHex parses space-separated hex pairs ("3b 65 00 FF") left to right.
// Each token must be exactly two hex digits, case-insensitive.
// An empty or blank string yields an empty, non-nil slice.
func ParseHex(s string) ([]byte, error) {
	tokens := strings.Fields(s)
	out := make([]byte, 0, len(tokens))

	for i, tok := range tokens {
		if len(tok) != 2 {
			return nil, &TokenError{Index: i, Token: tok}
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, &TokenError{Index: i, Token: tok}
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// ParseData accepts either the spaced notation or a compact digit string
// ("3F00"). Compact input must hold an even number of digits.
func ParseData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t\n") {
		return ParseHex(s)
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%q: %w", s, ErrOddLength)
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, err)
	}
	return out, nil
}

// ParseByte parses a single header field such as "A4" or "0xa4".
// Values above 0xFF are rejected.
func ParseByte(s string) (byte, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if clean == "" || len(clean) > 2 {
		return 0, fmt.Errorf("invalid byte value %q", s)
	}
	v, err := strconv.ParseUint(clean, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q", s)
	}
	return byte(v), nil
}

// FormatHex renders bytes as upper-case space-separated pairs.
func FormatHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// Hex constructs a byte slice from a series of hex strings, ignoring spaces.
// It panics on invalid input and is meant for literals in tests and tables.
func Hex(parts ...string) []byte {
	fullHex := strings.Join(parts, "")
	cleanHex := strings.ReplaceAll(fullHex, " ", "")

	data, err := hex.DecodeString(cleanHex)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", cleanHex, err))
	}
	return data
}
