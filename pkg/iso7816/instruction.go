package iso7816

import (
	"fmt"

	"github.com/gregLibert/scprobe/pkg/bits"
)

// Instruction Byte (INS) Logic according to ISO/IEC 7816-4.
//
// The exchange engine forwards INS opaquely. The names below only serve
// reporting, so an operator reading a trace can see "GET RESPONSE" instead of C0.
//
// 1. Data Encoding (Bit 1):
//    In the interindustry class, bit 1 set usually means the data field is BER-TLV
//    encoded, e.g. READ BINARY (0xB0) vs READ BINARY (BER-TLV) (0xB1).
//
// 2. Reserved Ranges:
//    INS values whose upper nibble is '6' or '9' collide with SW1 procedure bytes
//    under T=0 and are flagged as reserved.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes named in reports.
const (
	INS_VERIFY                InsCode = 0x20
	INS_MANAGE_CHANNEL        InsCode = 0x70
	INS_EXTERNAL_AUTHENTICATE InsCode = 0x82
	INS_GET_CHALLENGE         InsCode = 0x84
	INS_INTERNAL_AUTHENTICATE InsCode = 0x88
	INS_SELECT                InsCode = 0xA4
	INS_READ_BINARY           InsCode = 0xB0
	INS_READ_RECORD           InsCode = 0xB2
	INS_GET_RESPONSE          InsCode = 0xC0
	INS_ENVELOPE              InsCode = 0xC2
	INS_GET_DATA              InsCode = 0xCA
	INS_WRITE_BINARY          InsCode = 0xD0
	INS_UPDATE_BINARY         InsCode = 0xD6
	INS_PUT_DATA              InsCode = 0xDA
	INS_UPDATE_RECORD         InsCode = 0xDC
	INS_APPEND_RECORD         InsCode = 0xE2
	INS_TERMINATE_CARD_USAGE  InsCode = 0xFE
)

var insNames = map[InsCode]string{
	INS_VERIFY:                "VERIFY",
	INS_MANAGE_CHANNEL:        "MANAGE CHANNEL",
	INS_EXTERNAL_AUTHENTICATE: "EXTERNAL AUTHENTICATE",
	INS_GET_CHALLENGE:         "GET CHALLENGE",
	INS_INTERNAL_AUTHENTICATE: "INTERNAL AUTHENTICATE",
	INS_SELECT:                "SELECT",
	INS_READ_BINARY:           "READ BINARY",
	INS_READ_RECORD:           "READ RECORD",
	INS_GET_RESPONSE:          "GET RESPONSE",
	INS_ENVELOPE:              "ENVELOPE",
	INS_GET_DATA:              "GET DATA",
	INS_WRITE_BINARY:          "WRITE BINARY",
	INS_UPDATE_BINARY:         "UPDATE BINARY",
	INS_PUT_DATA:              "PUT DATA",
	INS_UPDATE_RECORD:         "UPDATE RECORD",
	INS_APPEND_RECORD:         "APPEND RECORD",
	INS_TERMINATE_CARD_USAGE:  "TERMINATE CARD USAGE",
}

func (i InsCode) String() string {
	if name, ok := insNames[i]; ok {
		return name
	}
	// Names are registered for even codes; the odd twin is the BER-TLV variant.
	if name, ok := insNames[i&^1]; ok && bits.IsSet(byte(i), 1) {
		return name + " (BER-TLV)"
	}
	return fmt.Sprintf("INS %02X", byte(i))
}

// IsReserved reports whether the code falls in the 6X/9X procedure-byte ranges.
func (i InsCode) IsReserved() bool {
	high := bits.HighNibble(byte(i))
	return high == 0x6 || high == 0x9
}

// Verbose returns a human-readable description of the instruction.
func (i InsCode) Verbose() string {
	format := "Standard"
	if bits.IsSet(byte(i), 1) {
		format = "BER-TLV"
	}
	if i.IsReserved() {
		format = "Reserved (6X/9X)"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i), i, format)
}
