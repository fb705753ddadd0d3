package pcsc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ebfe/scard"
)

// Reader attribute tags (SCARD_ATTR_*), addressed by their short name.
var attributeIDs = map[string]scard.Attrib{
	"ASYNC_PROTOCOL_TYPES":     0x30120,
	"ATR_STRING":               0x90303,
	"CHANNEL_ID":               0x20110,
	"CHARACTERISTICS":          0x60150,
	"CURRENT_BWT":              0x80209,
	"CURRENT_CLK":              0x80202,
	"CURRENT_CWT":              0x8020A,
	"CURRENT_D":                0x80204,
	"CURRENT_EBC_ENCODING":     0x8020B,
	"CURRENT_F":                0x80203,
	"CURRENT_IFSC":             0x80207,
	"CURRENT_IFSD":             0x80208,
	"CURRENT_IO_STATE":         0x90302,
	"CURRENT_N":                0x80205,
	"CURRENT_PROTOCOL_TYPE":    0x80201,
	"CURRENT_W":                0x80206,
	"DEFAULT_CLK":              0x30121,
	"DEFAULT_DATA_RATE":        0x30123,
	"DEVICE_FRIENDLY_NAME":     0x7FFF0003,
	"DEVICE_IN_USE":            0x7FFF0002,
	"DEVICE_SYSTEM_NAME":       0x7FFF0004,
	"DEVICE_UNIT":              0x7FFF0001,
	"ESC_AUTHREQUEST":          0x7A005,
	"ESC_CANCEL":               0x7A003,
	"ESC_RESET":                0x7A000,
	"EXTENDED_BWT":             0x8020C,
	"ICC_INTERFACE_STATUS":     0x90301,
	"ICC_PRESENCE":             0x90300,
	"ICC_TYPE_PER_ATR":         0x90304,
	"MAX_CLK":                  0x30122,
	"MAX_DATA_RATE":            0x30124,
	"MAX_IFSD":                 0x30125,
	"MAXINPUT":                 0x7A007,
	"POWER_MGMT_SUPPORT":       0x40131,
	"SUPRESS_T1_IFS_REQUEST":   0x7FFF0007,
	"SYNC_PROTOCOL_TYPES":      0x30126,
	"USER_AUTH_INPUT_DEVICE":   0x50142,
	"USER_TO_CARD_AUTH_DEVICE": 0x50140,
	"VENDOR_IFD_SERIAL_NO":     0x10103,
	"VENDOR_IFD_TYPE":          0x10101,
	"VENDOR_IFD_VERSION":       0x10102,
	"VENDOR_NAME":              0x10100,
}

// AttributeByName returns the tag of a named attribute. Lookup ignores case.
func AttributeByName(name string) (scard.Attrib, bool) {
	id, ok := attributeIDs[strings.ToUpper(name)]
	return id, ok
}

// AttributeNames lists the known attribute names in sorted order.
func AttributeNames() []string {
	names := make([]string, 0, len(attributeIDs))
	for name := range attributeIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseAttribute accepts either a known name ("VENDOR_NAME") or a raw tag ("0x10100").
func ParseAttribute(s string) (scard.Attrib, error) {
	if id, ok := AttributeByName(s); ok {
		return id, nil
	}
	digits, ok := strings.CutPrefix(strings.ToLower(s), "0x")
	if !ok {
		return 0, fmt.Errorf("unknown attribute %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute tag %q: %w", s, err)
	}
	return scard.Attrib(v), nil
}
