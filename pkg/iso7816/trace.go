package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/scprobe/pkg/notation"
)

// TRANSACTION:
// A Transaction represents the atomic unit of communication defined in ISO 7816-3:
// one Command APDU (C-APDU) sent by the terminal, followed by one Response APDU (R-APDU)
// sent back by the card.
//
// TRACE:
// A Trace is a chronological sequence of Transactions. A single logical exchange
// becomes several physical transactions when the card answers "61 XX": the
// engine then issues GET RESPONSE and the Trace records every round.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions (Command-Response pairs).
type Trace []Transaction

// Last returns the final transaction of the trace.
// Returns nil if the trace is empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the FINAL transaction in the trace was successful.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}

// Describe renders the trace as TX/RX lines in hex notation.
func (t Trace) Describe() string {
	var sb strings.Builder
	for i, tx := range t {
		if tx.Command != nil {
			frame, err := tx.Command.Bytes()
			if err != nil {
				fmt.Fprintf(&sb, "[%d] TX <invalid: %v>\n", i+1, err)
			} else {
				fmt.Fprintf(&sb, "[%d] TX %s   (%s)\n", i+1, notation.FormatHex(frame), InsCode(tx.Command.INS))
			}
		}
		if tx.Response != nil {
			resp := tx.Response
			if len(resp.Data) > 0 {
				fmt.Fprintf(&sb, "    RX %s %02X %02X\n", notation.FormatHex(resp.Data), resp.Status.SW1(), resp.Status.SW2())
			} else {
				fmt.Fprintf(&sb, "    RX %02X %02X\n", resp.Status.SW1(), resp.Status.SW2())
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
