package iso7816

import (
	"errors"
	"fmt"
)

// ERROR MODEL:
// Every failure leaves this package as one of three typed errors so callers can
// tell a caller-correctable condition from a dead transport without looking at
// message text:
//
// - MalformedATRError:     the ATR bytes violate ISO 7816-3 structure.
// - InvalidParameterError: an APDU field is out of range. Raised before any
//   byte reaches the transport.
// - ExchangeError:         the command/response exchange failed. Kind tells why.

// Reasons carried by MalformedATRError.
const (
	ReasonTooShort            = "too short"
	ReasonBadInitialCharacter = "bad initial character"
	ReasonTruncated           = "truncated"
	ReasonLengthMismatch      = "trailing or missing bytes"
	ReasonChecksumMismatch    = "checksum mismatch"
)

// MalformedATRError reports an ATR that cannot be decoded.
type MalformedATRError struct {
	Reason string
	Offset int // byte position where decoding stopped
}

func (e *MalformedATRError) Error() string {
	return fmt.Sprintf("malformed ATR: %s (offset %d)", e.Reason, e.Offset)
}

// InvalidParameterError reports an APDU field outside its allowed range.
type InvalidParameterError struct {
	Field    string
	Value    int
	Min, Max int

	// Err is set when the field could not be parsed from text.
	Err error
}

func (e *InvalidParameterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid APDU parameter %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid APDU parameter %s: %d (allowed %d-%d)", e.Field, e.Value, e.Min, e.Max)
}

func (e *InvalidParameterError) Unwrap() error {
	return e.Err
}

// ExchangeErrorKind tags the cause of an ExchangeError.
type ExchangeErrorKind int

const (
	// ErrKindTransportFailure: the transport itself failed. Terminal, never retried.
	ErrKindTransportFailure ExchangeErrorKind = iota + 1
	// ErrKindEmptyResponse: fewer than 2 bytes came back, so no status word.
	ErrKindEmptyResponse
	// ErrKindCardStatus: the card answered with a final non-9000 status.
	ErrKindCardStatus
	// ErrKindTooManyContinuations: the card kept answering 61XX past the round cap.
	ErrKindTooManyContinuations
)

func (k ExchangeErrorKind) String() string {
	switch k {
	case ErrKindTransportFailure:
		return "transport failure"
	case ErrKindEmptyResponse:
		return "empty response"
	case ErrKindCardStatus:
		return "card status"
	case ErrKindTooManyContinuations:
		return "too many continuations"
	default:
		return fmt.Sprintf("ExchangeErrorKind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *ExchangeError of the same kind.
var (
	ErrTransportFailure     = errors.New("transport failure")
	ErrEmptyResponse        = errors.New("empty response")
	ErrCardStatus           = errors.New("card status")
	ErrTooManyContinuations = errors.New("too many continuations")
)

// ExchangeError reports a failed APDU exchange.
type ExchangeError struct {
	Kind ExchangeErrorKind

	// Status, Description and Known are set for ErrKindCardStatus.
	// Known is false when the status word is absent from the catalog.
	Status      StatusWord
	Description string
	Known       bool

	// Rounds is the number of transport calls made, including the failing one.
	Rounds int
	// Trace holds the transactions completed before the failure.
	Trace Trace

	// Err is the transport error for ErrKindTransportFailure.
	Err error
}

func (e *ExchangeError) Error() string {
	switch e.Kind {
	case ErrKindCardStatus:
		desc := e.Description
		if !e.Known {
			desc = "unknown status"
		}
		return fmt.Sprintf("card returned %02X %02X: %s", e.Status.SW1(), e.Status.SW2(), desc)
	case ErrKindTransportFailure:
		return fmt.Sprintf("transport failure on round %d: %v", e.Rounds, e.Err)
	case ErrKindTooManyContinuations:
		return fmt.Sprintf("card still reports more data after %d rounds", e.Rounds)
	default:
		return fmt.Sprintf("%s on round %d", e.Kind, e.Rounds)
	}
}

// Unwrap exposes both the kind sentinel and the transport cause.
func (e *ExchangeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k ExchangeErrorKind) sentinel() error {
	switch k {
	case ErrKindTransportFailure:
		return ErrTransportFailure
	case ErrKindEmptyResponse:
		return ErrEmptyResponse
	case ErrKindCardStatus:
		return ErrCardStatus
	case ErrKindTooManyContinuations:
		return ErrTooManyContinuations
	}
	return nil
}
