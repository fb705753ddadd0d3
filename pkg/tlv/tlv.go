// Package tlv renders BER-TLV (Basic Encoding Rules - Tag-Length-Value) data
// found in card responses.
package tlv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Dump decodes data as BER-TLV and renders one line per object, children
// indented under their constructed parent:
//
//	6F
//	  84 (7): A0000000031010
//	  A5
//	    50 (4): 56495341 ("VISA")
func Dump(data []byte) (string, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return "", fmt.Errorf("bertlv decode failed: %w", err)
	}

	var lines []string
	writeNodes(&lines, packets, 0)
	return strings.Join(lines, "\n"), nil
}

func writeNodes(lines *[]string, packets []bertlv.TLV, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range packets {
		tag := strings.ToUpper(p.Tag)
		if len(p.TLVs) > 0 {
			*lines = append(*lines, indent+tag)
			writeNodes(lines, p.TLVs, depth+1)
			continue
		}
		*lines = append(*lines, fmt.Sprintf("%s%s (%d): %s", indent, tag, len(p.Value), formatValue(p.Value)))
	}
}

// formatValue appends the ASCII rendering when every byte is printable.
func formatValue(data []byte) string {
	if len(data) == 0 {
		return "-"
	}
	if isPrintable(data) {
		return fmt.Sprintf("%X (%q)", data, string(data))
	}
	return fmt.Sprintf("%X", data)
}

func isPrintable(data []byte) bool {
	for _, b := range data {
		if b < 32 || b > 126 {
			return false
		}
	}
	return true
}

// Find scans the top level of data for tag and returns its payload.
// A constructed object is returned re-encoded.
func Find(data []byte, tag string) ([]byte, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bertlv decode failed: %w", err)
	}

	target := strings.ToUpper(tag)
	for _, p := range packets {
		if strings.ToUpper(p.Tag) == target {
			if len(p.TLVs) > 0 {
				return bertlv.Encode(p.TLVs)
			}
			return p.Value, nil
		}
	}
	return nil, fmt.Errorf("tag %s not found", target)
}

// MakeSafeASCII replaces every non-printable byte with '.'.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
