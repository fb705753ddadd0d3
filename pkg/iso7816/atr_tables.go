package iso7816

import (
	"fmt"

	"github.com/gregLibert/scprobe/pkg/bits"
)

// RateFactor is a value of the Fi or Di table (ISO/IEC 7816-3, tables 7 and 8).
// Some entries are not numbers; they are kept as negative sentinels so a
// reserved entry is never mistaken for a real factor.
type RateFactor int

const (
	// FactorRFU marks an entry reserved for future use.
	FactorRFU RateFactor = -1
	// FactorInternalClock marks Fi index 0 (card uses its internal clock).
	FactorInternalClock RateFactor = -2
)

// IsReserved reports whether the factor is not a number.
func (f RateFactor) IsReserved() bool {
	return f < 0
}

// Value returns the numeric factor. ok is false for sentinels.
func (f RateFactor) Value() (v int, ok bool) {
	if f.IsReserved() {
		return 0, false
	}
	return int(f), true
}

func (f RateFactor) String() string {
	switch f {
	case FactorRFU:
		return "RFU"
	case FactorInternalClock:
		return "internal clk"
	default:
		return fmt.Sprintf("%d", int(f))
	}
}

// clock rate conversion (Fi), indexed by TA1 bits 8-5
var clockRateTable = [16]RateFactor{
	FactorInternalClock, 372, 558, 744, 1116, 1488, 1860, FactorRFU,
	FactorRFU, 512, 768, 1024, 1536, 2048, FactorRFU, FactorRFU,
}

// baud rate adjustment (Di), indexed by TA1 bits 4-1
var baudRateTable = [16]RateFactor{
	FactorRFU, 1, 2, 4, 8, 16, 32, 64,
	12, 20, FactorRFU, FactorRFU, FactorRFU, FactorRFU, FactorRFU, FactorRFU,
}

// ClockRateFactor returns Fi for a TA1 value.
func ClockRateFactor(ta1 byte) RateFactor {
	return clockRateTable[bits.HighNibble(ta1)]
}

// BaudRateFactor returns Di for a TA1 value.
func BaudRateFactor(ta1 byte) RateFactor {
	return baudRateTable[bits.LowNibble(ta1)]
}

var protocolDescriptions = [16]string{
	"The half-duplex transmission of characters",
	"The half-duplex transmission of blocks",
	"Reserved for future full-duplex operations",
	"Reserved for future full-duplex operations",
	"Reserved for an enhanced half-duplex transmission of characters",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Reserved for future use by ISO/IEC JTC 1/SC 17",
	"Transmission protocols not standardized by ISO/IEC JTC 1/SC 17",
	"Not refer to a transmission protocol, but only qualifies global interface bytes",
}

// ProtocolDescription describes protocol type T.
func ProtocolDescription(p Protocol) string {
	return protocolDescriptions[bits.LowNibble(byte(p))]
}
