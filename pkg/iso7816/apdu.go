package iso7816

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gregLibert/scprobe/pkg/notation"
)

// APDU (Application Protocol Data Unit) structures and encodings according to ISO/IEC 7816-3 and 7816-4.
//
// COMMAND APDU (C-APDU):
// A command consists of a mandatory Header (4 bytes) and an optional Body.
//
// 1. Header:
//   - CLA (Class): Security, Chaining, Logical Channel.
//   - INS (Instruction): The specific command to execute.
//   - P1, P2 (Parameters): Command modifiers.
//
// 2. Body:
//   - Lc (Length Command): Number of bytes in the data field.
//   - Data: The command payload.
//   - Le (Length Expected): Maximum number of bytes expected in the response.
//
// ENCODING CASES (ISO 7816-3), short length only:
// - Case 1: No Data, No Response (Header only).
// - Case 2: No Data, Response Expected (Header + Le).
// - Case 3: Data Present, No Response (Header + Lc + Data).
// - Case 4: Data Present, Response Expected (Header + Lc + Data + Le).
//
// Every header field and Lc fit in one byte (0-255). Le is carried as Ne, the
// number of expected bytes, 1-256, where 256 travels as Le=00.
//
// RESPONSE APDU (R-APDU):
// A response sent by the card consists of an optional Body and a mandatory
// Trailer (SW1 SW2).

// APDU Limits according to ISO 7816-3 (short length).
const (
	// MaxShortLc is the maximum data length (Nc) encodable in one byte.
	MaxShortLc = 255

	// MaxShortLe is the maximum expected response length (Ne). Le=00 encodes 256.
	MaxShortLe = 256
)

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	CLA, INS, P1, P2 byte
	Data             []byte
	Ne               int // Expected response length (0 means no Le field)
}

// NewCommandAPDU creates a command from loosely typed values, rejecting any
// header field outside 0-255, Ne outside 0-256 and data longer than 255 bytes.
func NewCommandAPDU(cla, ins, p1, p2 int, data []byte, ne int) (*CommandAPDU, error) {
	fields := []struct {
		name  string
		value int
	}{
		{"CLA", cla}, {"INS", ins}, {"P1", p1}, {"P2", p2},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 0xFF {
			return nil, &InvalidParameterError{Field: f.name, Value: f.value, Min: 0, Max: 0xFF}
		}
	}

	cmd := &CommandAPDU{
		CLA:  byte(cla),
		INS:  byte(ins),
		P1:   byte(p1),
		P2:   byte(p2),
		Data: data,
		Ne:   ne,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// GetResponse builds the GET RESPONSE command (00 C0 00 00 Le) that retrieves
// the bytes announced by a '61 XX' status. XX=00 announces 256 bytes.
func GetResponse(le byte) *CommandAPDU {
	ne := int(le)
	if ne == 0 {
		ne = MaxShortLe
	}
	return &CommandAPDU{INS: byte(INS_GET_RESPONSE), Ne: ne}
}

// Validate checks the body lengths.
func (c *CommandAPDU) Validate() error {
	if len(c.Data) > MaxShortLc {
		return &InvalidParameterError{Field: "Lc", Value: len(c.Data), Min: 0, Max: MaxShortLc}
	}
	if c.Ne < 0 || c.Ne > MaxShortLe {
		return &InvalidParameterError{Field: "Le", Value: c.Ne, Min: 0, Max: MaxShortLe}
	}
	return nil
}

// Bytes encodes the CommandAPDU into its byte representation (C-APDU).
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.Grow(5 + len(c.Data) + 1)

	// 1. Header
	buf.WriteByte(c.CLA)
	buf.WriteByte(c.INS)
	buf.WriteByte(c.P1)
	buf.WriteByte(c.P2)

	// 2. Lc + Data (Case 3/4)
	if nc := len(c.Data); nc > 0 {
		buf.WriteByte(byte(nc))
		buf.Write(c.Data)
	}

	// 3. Le (Case 2/4)
	if c.Ne > 0 {
		if c.Ne == MaxShortLe {
			buf.WriteByte(0x00) // 0x00 represents 256
		} else {
			buf.WriteByte(byte(c.Ne))
		}
	}

	return buf.Bytes(), nil
}

// ParseCommandData parses the data field of a command from text, either spaced
// ("3F 00") or compact ("3F00"). The result must fit a short APDU.
func ParseCommandData(text string) ([]byte, error) {
	data, err := notation.ParseData(text)
	if err != nil {
		return nil, &InvalidParameterError{Field: "Data", Err: err}
	}
	if len(data) > MaxShortLc {
		return nil, &InvalidParameterError{Field: "Lc", Value: len(data), Min: 0, Max: MaxShortLc}
	}
	return data, nil
}

// ParseCommandAPDU decodes a raw short C-APDU (cases 1 to 4).
func ParseCommandAPDU(frame []byte) (*CommandAPDU, error) {
	if len(frame) < 4 {
		return nil, &InvalidParameterError{Field: "header length", Value: len(frame), Min: 4, Max: 4}
	}

	cmd := &CommandAPDU{CLA: frame[0], INS: frame[1], P1: frame[2], P2: frame[3]}
	body := frame[4:]

	switch {
	case len(body) == 0:
		// Case 1
	case len(body) == 1:
		// Case 2
		cmd.Ne = decodeLe(body[0])
	default:
		lc := int(body[0])
		if lc == 0 {
			// 00 followed by more bytes is the extended-length marker.
			return nil, &InvalidParameterError{Field: "Lc", Value: 0, Min: 1, Max: MaxShortLc}
		}
		switch len(body) {
		case 1 + lc:
			// Case 3
		case 2 + lc:
			// Case 4
			cmd.Ne = decodeLe(body[1+lc])
		default:
			return nil, &InvalidParameterError{Field: "Lc", Value: lc, Min: len(body) - 2, Max: len(body) - 1}
		}
		cmd.Data = append([]byte(nil), body[1:1+lc]...)
	}

	return cmd, nil
}

func decodeLe(le byte) int {
	if le == 0 {
		return MaxShortLe
	}
	return int(le)
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("CLA: %02X | INS: %02X | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.CLA, c.INS, c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card into a ResponseAPDU.
// The input must contain at least 2 bytes (SW1, SW2).
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2

	return &ResponseAPDU{
		Data:   raw[:indexSW1],
		Status: NewStatusWord(raw[indexSW1], raw[indexSW1+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}

// Describe returns a multi-line report of the command header and body.
func (c *CommandAPDU) Describe() string {
	var sb strings.Builder
	sb.WriteString(ParseClass(c.CLA).Verbose())
	sb.WriteString("\n")
	sb.WriteString(InsCode(c.INS).Verbose())
	fmt.Fprintf(&sb, "\nP1: %02X | P2: %02X", c.P1, c.P2)
	if len(c.Data) > 0 {
		fmt.Fprintf(&sb, "\nData (%d bytes): %s", len(c.Data), notation.FormatHex(c.Data))
	}
	if c.Ne > 0 {
		fmt.Fprintf(&sb, "\nNe: %d", c.Ne)
	}
	return sb.String()
}
