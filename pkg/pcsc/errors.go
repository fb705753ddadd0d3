package pcsc

import (
	"errors"
	"fmt"

	"github.com/ebfe/scard"

	"github.com/gregLibert/scprobe/pkg/catalog"
)

// TransportError reports a failed call to the reader service.
type TransportError struct {
	Op          string // e.g. "transmit", "connect"
	Code        uint32 // PC/SC result code, 0 when the cause is not a scard.Error
	Description string
	Err         error
}

func (e *TransportError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("pcsc %s: %v", e.Op, e.Err)
	}
	if e.Description == "" {
		return fmt.Sprintf("pcsc %s: result 0x%08X: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("pcsc %s: result 0x%08X: %s", e.Op, e.Code, e.Description)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newTransportError wraps err, extracting the PC/SC result code when present.
func newTransportError(op string, err error, cat *catalog.Catalog) error {
	if err == nil {
		return nil
	}
	te := &TransportError{Op: op, Err: err}

	var code scard.Error
	if errors.As(err, &code) {
		te.Code = uint32(code)
		te.Description, _ = cat.DescribeResult(te.Code)
	}
	return te
}
