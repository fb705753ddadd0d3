package pcsc

import (
	"fmt"
	"strings"

	"github.com/ebfe/scard"
)

// ParseShareMode maps "shared", "exclusive" or "direct" to its PC/SC value.
func ParseShareMode(s string) (scard.ShareMode, error) {
	switch strings.ToLower(s) {
	case "", "shared":
		return scard.ShareShared, nil
	case "exclusive":
		return scard.ShareExclusive, nil
	case "direct":
		return scard.ShareDirect, nil
	default:
		return 0, fmt.Errorf("unknown share mode %q", s)
	}
}

// ParseProtocols folds protocol names ("t0", "t1", "any") into a preference mask.
// An empty list means T=0 or T=1.
func ParseProtocols(names []string) (scard.Protocol, error) {
	if len(names) == 0 {
		return scard.ProtocolT0 | scard.ProtocolT1, nil
	}
	var mask scard.Protocol
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "t0", "t=0":
			mask |= scard.ProtocolT0
		case "t1", "t=1":
			mask |= scard.ProtocolT1
		case "any":
			mask |= scard.ProtocolT0 | scard.ProtocolT1
		default:
			return 0, fmt.Errorf("unknown protocol %q", n)
		}
	}
	return mask, nil
}

// ProtocolName renders a negotiated protocol.
func ProtocolName(p scard.Protocol) string {
	switch p {
	case scard.ProtocolT0:
		return "T=0"
	case scard.ProtocolT1:
		return "T=1"
	case scard.ProtocolUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("0x%X", uint32(p))
	}
}
