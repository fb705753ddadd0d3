package iso7816

import (
	"fmt"

	"github.com/gregLibert/scprobe/pkg/bits"
)

// Class Byte (CLA) Structure according to ISO/IEC 7816-4.
//
// The exchange engine sends CLA untouched. ParseClass only decodes it for
// reports (logical channel, secure messaging, chaining).
//
// Structure:
// Bit 8: Proprietary (1) or Interindustry (0).
// Bit 7: Type of Interindustry (0=First, 1=Further).
// Bit 5: Command Chaining (0=Last/Only, 1=More follow).
//
// 1. First Interindustry Class (00xx xxxx):
//    - Bits 4-3: Secure Messaging (2 bits, 4 states).
//    - Bits 2-1: Logical Channel number (0-3).
//
// 2. Further Interindustry Class (01xx xxxx):
//    - Bit 6: Secure Messaging (1 bit: No SM or SM active).
//    - Bits 4-1: Logical Channel number minus 4 (encoding 0-15 for channels 4-19).

// SecureMessaging defines the security level applied to the APDU.
type SecureMessaging int

const (
	SMNone         SecureMessaging = 0
	SMProprietary  SecureMessaging = 1
	SMHeaderNoProc SecureMessaging = 2
	SMHeaderAuth   SecureMessaging = 3
)

func (sm SecureMessaging) String() string {
	switch sm {
	case SMNone:
		return "None"
	case SMProprietary:
		return "Proprietary"
	case SMHeaderNoProc:
		return "ISO (Header not processed)"
	case SMHeaderAuth:
		return "ISO (Header authenticated)"
	default:
		return "Unknown"
	}
}

// Class is the decoded CLA byte.
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsInvalid       bool // 0xFF is reserved for PPS
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8 // Logical channel number (0-19)
}

// ParseClass decodes a raw CLA byte. It never fails: 0xFF is flagged IsInvalid.
func ParseClass(cla byte) Class {
	c := Class{Raw: cla}

	if cla == 0xFF {
		c.IsInvalid = true
		return c
	}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c
	}

	c.IsChained = bits.IsSet(cla, 5)

	if !bits.IsSet(cla, 7) {
		// First Interindustry (00xx xxxx)
		c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
		c.Channel = bits.GetRange(cla, 2, 1)
	} else {
		// Further Interindustry (01xx xxxx)
		if bits.IsSet(cla, 6) {
			c.SecureMessaging = SMHeaderNoProc
		}
		c.Channel = bits.GetRange(cla, 4, 1) + 4
	}

	return c
}

// Verbose returns a one-line description of the CLA byte.
func (c Class) Verbose() string {
	switch {
	case c.IsInvalid:
		return fmt.Sprintf("CLA: 0x%02X | Invalid (reserved for PPS)", c.Raw)
	case c.IsProprietary:
		return fmt.Sprintf("CLA: 0x%02X | Proprietary", c.Raw)
	}

	chaining := "last or only command"
	if c.IsChained {
		chaining = "more commands follow"
	}

	return fmt.Sprintf("CLA: 0x%02X | Channel: %d | SM: %s | Chaining: %s",
		c.Raw, c.Channel, c.SecureMessaging, chaining)
}
