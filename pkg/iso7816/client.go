package iso7816

import (
	"io"
	"log/slog"

	"github.com/gregLibert/scprobe/pkg/catalog"
	"github.com/gregLibert/scprobe/pkg/notation"
)

// CLIENT & PROTOCOL LOGIC:
// The Client drives one logical command/response exchange over a Transmitter.
// It handles the T=0 transport behaviour that leaks into the application layer:
//
// "61 XX" (Response Available):
//    The card indicates that XX bytes are waiting. The client sends
//    GET RESPONSE (00 C0 00 00 XX) and appends the returned data to the body.
//
// Every other status ends the exchange: 9000 succeeds, anything else is
// returned as an ExchangeError of kind ErrKindCardStatus. Wrong length (6CXX)
// is not retried.
//
// Rounds are strictly sequential and capped by MaxContinuations so that a card
// (or emulator) answering 61XX forever cannot hang the caller.

// DefaultMaxContinuations is the GET RESPONSE round cap used when none is set.
const DefaultMaxContinuations = 32

// Transmitter abstracts the physical card connection. Implementations must
// serialize access to the reader; a Client issues one Transmit at a time.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card             Transmitter
	MaxContinuations int
	Catalog          *catalog.Catalog
	Logger           *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxContinuations sets the GET RESPONSE round cap. Values below 0 are treated as 0.
func WithMaxContinuations(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.MaxContinuations = n
	}
}

// WithCatalog sets the catalog used to describe card status words.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Client) { c.Catalog = cat }
}

// WithLogger sets the logger receiving TX/RX frames at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter, opts ...Option) *Client {
	c := &Client{
		Card:             card,
		MaxContinuations: DefaultMaxContinuations,
		Catalog:          catalog.Default(),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a successful exchange.
type Result struct {
	// Data is the response body accumulated across all rounds.
	Data []byte
	// Status is the final status word (always 9000).
	Status StatusWord
	// Trace records every round, GET RESPONSE included.
	Trace Trace
}

// Exchange sends cmd and follows 61XX continuations until a final status.
// An invalid command fails with *InvalidParameterError before any transmission.
// Every other failure is an *ExchangeError.
func (c *Client) Exchange(cmd *CommandAPDU) (*Result, error) {
	frame, err := cmd.Bytes()
	if err != nil {
		return nil, err
	}

	var (
		body    []byte
		trace   Trace
		current = cmd
	)

	for round := 0; ; round++ {
		c.logger().Debug("tx apdu", "round", round+1, "frame", notation.FormatHex(frame))

		raw, err := c.Card.Transmit(frame)
		if err != nil {
			return nil, &ExchangeError{Kind: ErrKindTransportFailure, Rounds: round + 1, Trace: trace, Err: err}
		}

		c.logger().Debug("rx apdu", "round", round+1, "frame", notation.FormatHex(raw))

		resp, err := ParseResponseAPDU(raw)
		if err != nil {
			return nil, &ExchangeError{Kind: ErrKindEmptyResponse, Rounds: round + 1, Trace: trace}
		}

		trace = append(trace, Transaction{Command: current, Response: resp})
		body = append(body, resp.Data...)

		sw := resp.Status
		switch {
		case sw == SW_NO_ERROR:
			if body == nil {
				body = []byte{}
			}
			return &Result{Data: body, Status: sw, Trace: trace}, nil

		case sw.SW1() == 0x61:
			if round >= c.MaxContinuations {
				return nil, &ExchangeError{Kind: ErrKindTooManyContinuations, Status: sw, Rounds: round + 1, Trace: trace}
			}
			current = GetResponse(sw.SW2())
			if frame, err = current.Bytes(); err != nil {
				return nil, err
			}

		default:
			desc, known := c.Catalog.DescribeStatusWord(uint16(sw))
			return nil, &ExchangeError{
				Kind:        ErrKindCardStatus,
				Status:      sw,
				Description: desc,
				Known:       known,
				Rounds:      round + 1,
				Trace:       trace,
			}
		}
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
