package iso7816

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gregLibert/scprobe/pkg/bits"
	"github.com/gregLibert/scprobe/pkg/notation"
	"github.com/gregLibert/scprobe/pkg/tlv"
)

// ANSWER TO RESET (ISO/IEC 7816-3, clause 8):
//
//	TS  T0  [TA1 TB1 TC1 TD1]  [TA2 TB2 TC2 TD2] ...  T1..TK  [TCK]
//
// 1. TS (Initial character): 0x3B = direct convention, 0x3F = inverse convention.
//
// 2. T0 (Format byte):
//    - Bits 4-1: K, the number of historical bytes (0-15).
//    - Bits 8-5: presence of TA1, TB1, TC1, TD1 (bit 5 = TA ... bit 8 = TD).
//
// 3. Interface byte groups:
//    Group i holds any subset of TAi, TBi, TCi and optionally TDi.
//    TDi bits 4-1 name a protocol T; bits 8-5 announce group i+1.
//    The chain ends at the first group without TDi.
//
// 4. Historical bytes: exactly K bytes after the last group.
//
// 5. TCK (Check byte): present iff any TDi names a protocol other than T=0.
//    XOR of T0..TCK is zero on a well-formed ATR. It is captured, and only
//    verified when the caller asks for it.

// Convention is the bit convention announced by TS.
type Convention int

const (
	DirectConvention  Convention = iota + 1 // TS = 0x3B
	InverseConvention                       // TS = 0x3F
)

func (c Convention) String() string {
	switch c {
	case DirectConvention:
		return "Direct Convention"
	case InverseConvention:
		return "Inverse Convention"
	default:
		return "Unknown Convention"
	}
}

// Protocol is a transmission protocol type T (0-15).
type Protocol byte

func (p Protocol) String() string {
	return fmt.Sprintf("T=%d", byte(p))
}

// InterfaceByte is an optional ATR byte.
type InterfaceByte struct {
	Value   byte
	Present bool
}

// InterfaceGroup is the TAi/TBi/TCi/TDi cluster at position i (1-indexed).
type InterfaceGroup struct {
	Index          int
	TA, TB, TC, TD InterfaceByte
}

// Protocol returns the protocol named by TDi, if TDi is present.
func (g InterfaceGroup) Protocol() (Protocol, bool) {
	if !g.TD.Present {
		return 0, false
	}
	return Protocol(bits.LowNibble(g.TD.Value)), true
}

// Size returns the number of bytes present in the group.
func (g InterfaceGroup) Size() int {
	n := 0
	for _, b := range []InterfaceByte{g.TA, g.TB, g.TC, g.TD} {
		if b.Present {
			n++
		}
	}
	return n
}

// ATR is a decoded Answer To Reset. It is immutable once returned by DecodeATR.
type ATR struct {
	Raw        []byte
	Convention Convention
	T0         byte
	Groups     []InterfaceGroup
	Historical []byte
	TCK        InterfaceByte

	// FieldOrder lists the fields in wire order: "TS", "T0", "TA1", ..., "hb", "TCK".
	FieldOrder []string
}

// DecodeOption tunes DecodeATR.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	verifyChecksum bool
}

// WithChecksumValidation makes DecodeATR reject an ATR whose TCK does not
// XOR-fold T0..TCK to zero.
func WithChecksumValidation() DecodeOption {
	return func(c *decodeConfig) { c.verifyChecksum = true }
}

// interface byte presence bits in T0/TDi, in wire order
var interfaceBytes = []struct {
	name string
	mask byte
}{
	{"TA", 0x10},
	{"TB", 0x20},
	{"TC", 0x40},
	{"TD", 0x80},
}

// DecodeATR parses raw ATR bytes. Failures are *MalformedATRError.
func DecodeATR(raw []byte, opts ...DecodeOption) (ATR, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(raw) < 2 {
		return ATR{}, &MalformedATRError{Reason: ReasonTooShort, Offset: len(raw)}
	}

	atr := ATR{
		Raw:        append([]byte(nil), raw...),
		T0:         raw[1],
		FieldOrder: []string{"TS", "T0"},
	}

	switch raw[0] {
	case 0x3B:
		atr.Convention = DirectConvention
	case 0x3F:
		atr.Convention = InverseConvention
	default:
		return ATR{}, &MalformedATRError{Reason: ReasonBadInitialCharacter, Offset: 0}
	}

	historicalCount := int(bits.LowNibble(atr.T0))
	mask := atr.T0 & 0xF0
	cursor := 2
	tckRequired := false

	// Bytes that must remain after the interface groups.
	reserved := func() int {
		n := historicalCount
		if tckRequired {
			n++
		}
		return n
	}

	for index := 1; mask != 0; index++ {
		if cursor+bits.Count(mask) > len(raw)-reserved() {
			return ATR{}, &MalformedATRError{Reason: ReasonTruncated, Offset: cursor}
		}

		group := InterfaceGroup{Index: index}
		slots := []*InterfaceByte{&group.TA, &group.TB, &group.TC, &group.TD}

		for i, ib := range interfaceBytes {
			if mask&ib.mask == 0 {
				continue
			}
			*slots[i] = InterfaceByte{Value: raw[cursor], Present: true}
			atr.FieldOrder = append(atr.FieldOrder, fmt.Sprintf("%s%d", ib.name, index))
			cursor++
		}

		atr.Groups = append(atr.Groups, group)

		if !group.TD.Present {
			break
		}
		if p, _ := group.Protocol(); p != 0 {
			tckRequired = true
		}
		mask = group.TD.Value & 0xF0
	}

	if cursor+historicalCount > len(raw) {
		return ATR{}, &MalformedATRError{Reason: ReasonTruncated, Offset: cursor}
	}
	atr.Historical = append([]byte{}, raw[cursor:cursor+historicalCount]...)
	if historicalCount > 0 {
		atr.FieldOrder = append(atr.FieldOrder, "hb")
	}
	cursor += historicalCount

	if tckRequired {
		if cursor >= len(raw) {
			return ATR{}, &MalformedATRError{Reason: ReasonTruncated, Offset: cursor}
		}
		atr.TCK = InterfaceByte{Value: raw[cursor], Present: true}
		atr.FieldOrder = append(atr.FieldOrder, "TCK")
		cursor++
	}

	if cursor != len(raw) {
		return ATR{}, &MalformedATRError{Reason: ReasonLengthMismatch, Offset: cursor}
	}

	if cfg.verifyChecksum {
		if err := atr.VerifyChecksum(); err != nil {
			return ATR{}, err
		}
	}

	return atr, nil
}

// ParseATR decodes an ATR written in hex notation ("3B 65 00 ...").
func ParseATR(text string, opts ...DecodeOption) (ATR, error) {
	raw, err := notation.ParseHex(text)
	if err != nil {
		return ATR{}, fmt.Errorf("parse ATR text: %w", err)
	}
	return DecodeATR(raw, opts...)
}

// HistoricalCount returns K, the number of historical bytes announced by T0.
func (a ATR) HistoricalCount() int {
	return int(bits.LowNibble(a.T0))
}

// Protocols returns the distinct protocols named by the TDi bytes, in order.
// An ATR without TD1 implies T=0.
func (a ATR) Protocols() []Protocol {
	var out []Protocol
	seen := make(map[Protocol]bool)
	for _, g := range a.Groups {
		if p, ok := g.Protocol(); ok && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	return out
}

// Field returns the value of a named field such as "TA1" or "TCK".
// "TS" and "T0" are always present; "hb" is not a single byte and is not served.
func (a ATR) Field(name string) (byte, bool) {
	switch name {
	case "TS":
		if len(a.Raw) > 0 {
			return a.Raw[0], true
		}
		return 0, false
	case "T0":
		return a.T0, true
	case "TCK":
		return a.TCK.Value, a.TCK.Present
	}

	if len(name) < 3 || name[0] != 'T' {
		return 0, false
	}
	kind := name[1]
	index, err := strconv.Atoi(name[2:])
	if err != nil {
		return 0, false
	}
	for _, g := range a.Groups {
		if g.Index != index {
			continue
		}
		switch kind {
		case 'A':
			return g.TA.Value, g.TA.Present
		case 'B':
			return g.TB.Value, g.TB.Present
		case 'C':
			return g.TC.Value, g.TC.Present
		case 'D':
			return g.TD.Value, g.TD.Present
		}
	}
	return 0, false
}

// Fi returns the clock rate conversion factor from TA1.
// ok is false when TA1 is absent.
func (a ATR) Fi() (f RateFactor, ok bool) {
	ta1, ok := a.Field("TA1")
	if !ok {
		return 0, false
	}
	return ClockRateFactor(ta1), true
}

// Di returns the baud rate adjustment factor from TA1.
// ok is false when TA1 is absent.
func (a ATR) Di() (d RateFactor, ok bool) {
	ta1, ok := a.Field("TA1")
	if !ok {
		return 0, false
	}
	return BaudRateFactor(ta1), true
}

// Bytes serializes the decoded fields back in FieldOrder.
func (a ATR) Bytes() []byte {
	out := make([]byte, 0, len(a.Raw))
	for _, name := range a.FieldOrder {
		if name == "hb" {
			out = append(out, a.Historical...)
			continue
		}
		if v, ok := a.Field(name); ok {
			out = append(out, v)
		}
	}
	return out
}

// VerifyChecksum checks that T0..TCK XOR to zero. An ATR without TCK passes.
func (a ATR) VerifyChecksum() error {
	if !a.TCK.Present {
		return nil
	}
	var x byte
	for _, b := range a.Raw[1:] {
		x ^= b
	}
	if x != 0 {
		return &MalformedATRError{Reason: ReasonChecksumMismatch, Offset: len(a.Raw) - 1}
	}
	return nil
}

// String returns the ATR in hex notation.
func (a ATR) String() string {
	return notation.FormatHex(a.Raw)
}

// Describe renders a field-by-field report.
func (a ATR) Describe() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ATR: %s\n", a)
	for _, name := range a.FieldOrder {
		switch name {
		case "hb":
			fmt.Fprintf(&sb, "\nHistorical bytes (%d): %s (%q)\n", len(a.Historical),
				notation.FormatHex(a.Historical), tlv.MakeSafeASCII(a.Historical))
			continue
		case "TCK":
			status := "valid"
			if a.VerifyChecksum() != nil {
				status = "INVALID"
			}
			fmt.Fprintf(&sb, "TCK = %02X -> checksum %s\n", a.TCK.Value, status)
			continue
		}

		v, _ := a.Field(name)
		fmt.Fprintf(&sb, "%-3s = %02X", name, v)

		switch {
		case name == "TS":
			fmt.Fprintf(&sb, " -> %s", a.Convention)
		case name == "T0":
			fmt.Fprintf(&sb, " -> K = %d historical bytes", a.HistoricalCount())
		case name == "TA1":
			fmt.Fprintf(&sb, " ->\n%16sFi = %s\n%16sDi = %s", "", ClockRateFactor(v), "", BaudRateFactor(v))
		case name == "TB1":
			fmt.Fprintf(&sb, " ->\n%16sII = %d\n%16sPI = %d", "", bits.GetRange(v, 7, 6), "", bits.GetRange(v, 5, 1))
		case name == "TC1":
			fmt.Fprintf(&sb, " -> Extra guard time N = %d", v)
		case strings.HasPrefix(name, "TD"):
			p := Protocol(bits.LowNibble(v))
			fmt.Fprintf(&sb, " ->\n%16s%s - %s", "", p, ProtocolDescription(p))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
