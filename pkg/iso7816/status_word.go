package iso7816

import (
	"fmt"

	"github.com/gregLibert/scprobe/pkg/bits"
	"github.com/gregLibert/scprobe/pkg/catalog"
)

// Dynamic Status Word Logic:
//
// While most Status Words (SW) are static 2-byte values (e.g., 0x9000), ISO 7816-4 defines
// specific ranges where the value is dynamic and carries contextual information:
//
// 1. '61XX' (SW1=0x61): Process Completed, Response Available.
//    XX indicates the number of extra bytes available for retrieval (GET RESPONSE).
//
// 2. '6CXX' (SW1=0x6C): Wrong Length.
//    XX indicates the correct expected length (Le). The exchange engine does not
//    act on it; it is reported like any other final status.
//
// 3. '62XX' and '64XX' (Warning/Execution Error): Triggering by the Card.
//    If XX is in range [0x02, 0x80], the card requests a specific action or indicates
//    data issues. XX represents the number of bytes involved.
//
// 4. '63CX' (Warning): Counter Management.
//    If the upper nibble of SW2 is 'C' (0xC0-0xCF), the lower nibble represents
//    a counter value (e.g., remaining PIN retries).

// StatusWord represents the two-byte status response (SW1-SW2) returned by the smart card.
type StatusWord uint16

// NewStatusWord creates a StatusWord instance from two separate bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// Category is the outcome class of a status word.
type Category int

const (
	// CategoryUnknown: not 9000, not 61XX and absent from the catalog.
	CategoryUnknown Category = iota
	// CategorySuccess: exactly 9000.
	CategorySuccess
	// CategoryMoreData: 61XX, XX more bytes retrievable with GET RESPONSE.
	CategoryMoreData
	// CategoryWarning: a catalogued 62XX/63XX code.
	CategoryWarning
	// CategoryError: any other catalogued code.
	CategoryError
)

func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "Success"
	case CategoryMoreData:
		return "MoreDataAvailable"
	case CategoryWarning:
		return "Warning"
	case CategoryError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Classify places the status word in its Category, using cat to decide whether
// a non-success code is known.
func (sw StatusWord) Classify(cat *catalog.Catalog) Category {
	if sw == SW_NO_ERROR {
		return CategorySuccess
	}
	if sw.SW1() == 0x61 {
		return CategoryMoreData
	}
	if _, ok := cat.DescribeStatusWord(uint16(sw)); !ok {
		return CategoryUnknown
	}
	if sw.IsWarning() {
		return CategoryWarning
	}
	return CategoryError
}

// IsTriggeringByCard checks if the status indicates a "Triggering by the card" event.
func (sw StatusWord) IsTriggeringByCard() bool {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	if sw2 < 0x02 || sw2 > 0x80 {
		return false
	}
	return sw1 == 0x62 || sw1 == 0x64
}

// IsCounter checks if the status indicates a non-volatile memory change counter.
func (sw StatusWord) IsCounter() bool {
	if sw.SW1() != 0x63 {
		return false
	}
	return bits.HighNibble(sw.SW2()) == 0x0C
}

// IsSuccess returns true if the command was processed successfully (9000) or
// if data is available (61XX).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// IsWarning returns true if the status indicates a warning (62XX or 63XX).
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError returns true if the status indicates an execution or checking error (64XX to 6FXX).
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return sw1 >= 0x64 && sw1 <= 0x6F
}

// Verbose returns a human-readable description using the built-in catalog.
func (sw StatusWord) Verbose() string {
	return sw.VerboseWith(catalog.Default())
}

// VerboseWith returns a human-readable description of the status word.
// Dynamic ISO definitions take priority over catalog entries, which take
// priority over the generic SW1 category.
func (sw StatusWord) VerboseWith(cat *catalog.Catalog) string {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	if sw.IsTriggeringByCard() {
		action := "Warning (Triggering)"
		if sw1 == 0x64 {
			action = "Error/Abort (Triggering)"
		}
		return fmt.Sprintf("[%04X] %s: Card expects query of %d bytes", uint16(sw), action, sw2)
	}

	if sw.IsCounter() {
		return fmt.Sprintf("[%04X] Warning: State changed, counter = %d", uint16(sw), bits.LowNibble(sw2))
	}

	if sw1 == 0x61 {
		return fmt.Sprintf("[%04X] Process completed, %d bytes available", uint16(sw), sw2)
	}

	if sw1 == 0x6C {
		return fmt.Sprintf("[%04X] Wrong length, correct Le is %d", uint16(sw), sw2)
	}

	if desc, ok := cat.DescribeStatusWord(uint16(sw)); ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), desc)
	}

	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Status Word codes referenced by this package and its callers (ISO/IEC 7816-4).
// The full description table lives in the catalog package.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_TRIGGERING_BY_CARD StatusWord = 0x6202
	SW_WARN_EOF_REACHED        StatusWord = 0x6282

	SW_ERR_WRONG_LENGTH            StatusWord = 0x6700
	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_FILE_NOT_FOUND          StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND        StatusWord = 0x6A83
	SW_ERR_INS_INVALID             StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED       StatusWord = 0x6E00
)
