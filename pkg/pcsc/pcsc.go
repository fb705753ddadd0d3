// Package pcsc connects to smart card readers through the PC/SC service.
//
// A Context owns the service session; a Conn is one card connection and
// satisfies iso7816.Transmitter. Every failure from the service is returned as
// a *TransportError carrying the PC/SC result code and its description.
package pcsc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ebfe/scard"

	"github.com/gregLibert/scprobe/pkg/catalog"
	"github.com/gregLibert/scprobe/pkg/notation"
)

// SCARD_E_NO_READERS_AVAILABLE
const errNoReadersAvailable scard.Error = 0x8010002E

// ErrNoReaders is returned by SelectReader when the reader list is empty.
var ErrNoReaders = errors.New("no readers found")

// cardHandle is the subset of *scard.Card used by Conn.
type cardHandle interface {
	Transmit(cmd []byte) ([]byte, error)
	Status() (*scard.CardStatus, error)
	GetAttrib(id scard.Attrib) ([]byte, error)
	Disconnect(d scard.Disposition) error
}

// contextHandle is the subset of *scard.Context used by Context.
type contextHandle interface {
	ListReaders() ([]string, error)
	Connect(reader string, mode scard.ShareMode, proto scard.Protocol) (cardHandle, error)
	Release() error
}

// scardContext adapts *scard.Context to contextHandle.
type scardContext struct {
	*scard.Context
}

func (c scardContext) Connect(reader string, mode scard.ShareMode, proto scard.Protocol) (cardHandle, error) {
	card, err := c.Context.Connect(reader, mode, proto)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Context is an established PC/SC session.
type Context struct {
	handle  contextHandle
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// Option configures a Context and the connections it opens.
type Option func(*Context)

// WithCatalog sets the catalog used to describe PC/SC result codes.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Context) { c.catalog = cat }
}

// WithLogger sets the logger for connection events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// Establish opens a session with the PC/SC service.
func Establish(opts ...Option) (*Context, error) {
	c := newContext(nil, opts...)
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, newTransportError("establish context", err, c.catalog)
	}
	c.handle = scardContext{ctx}
	return c, nil
}

func newContext(handle contextHandle, opts ...Option) *Context {
	c := &Context{
		handle:  handle,
		catalog: catalog.Default(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Readers lists the connected readers. No reader is an empty list, not an error.
func (c *Context) Readers() ([]string, error) {
	readers, err := c.handle.ListReaders()
	if err != nil {
		var code scard.Error
		if errors.As(err, &code) && code == errNoReadersAvailable {
			return []string{}, nil
		}
		return nil, newTransportError("list readers", err, c.catalog)
	}
	return readers, nil
}

// Connect opens a connection to the card in reader.
func (c *Context) Connect(reader string, mode scard.ShareMode, proto scard.Protocol) (*Conn, error) {
	card, err := c.handle.Connect(reader, mode, proto)
	if err != nil {
		return nil, newTransportError("connect", err, c.catalog)
	}

	conn := &Conn{
		Reader:  reader,
		card:    card,
		catalog: c.catalog,
		logger:  c.logger.With("reader", reader),
	}

	status, err := card.Status()
	if err != nil {
		_ = card.Disconnect(scard.LeaveCard)
		return nil, newTransportError("status", err, c.catalog)
	}
	conn.Protocol = status.ActiveProtocol
	conn.logger.Debug("card connected", "protocol", ProtocolName(conn.Protocol))

	return conn, nil
}

// Release closes the session.
func (c *Context) Release() error {
	return newTransportError("release context", c.handle.Release(), c.catalog)
}

// SelectReader picks a reader by name or, when name is empty, by index.
// A name matches exactly or, failing that, as a unique substring.
func SelectReader(readers []string, name string, index int) (string, error) {
	if len(readers) == 0 {
		return "", ErrNoReaders
	}

	if name == "" {
		if index < 0 || index >= len(readers) {
			return "", fmt.Errorf("reader index %d out of range (0..%d)", index, len(readers)-1)
		}
		return readers[index], nil
	}

	var matches []string
	for _, r := range readers {
		if r == name {
			return r, nil
		}
		if strings.Contains(r, name) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("reader %q not found", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("reader %q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

// Conn is a connection to one card.
type Conn struct {
	Reader string
	// Protocol is the protocol negotiated at connect time.
	Protocol scard.Protocol

	card    cardHandle
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// Transmit sends one APDU frame and returns the raw response.
func (c *Conn) Transmit(frame []byte) ([]byte, error) {
	resp, err := c.card.Transmit(frame)
	if err != nil {
		return nil, newTransportError("transmit", err, c.catalog)
	}
	return resp, nil
}

// ATR returns the Answer To Reset reported by the reader.
func (c *Conn) ATR() ([]byte, error) {
	status, err := c.card.Status()
	if err != nil {
		return nil, newTransportError("status", err, c.catalog)
	}
	c.logger.Debug("atr read", "atr", notation.FormatHex(status.Atr))
	return status.Atr, nil
}

// Attribute reads a reader attribute.
func (c *Conn) Attribute(id scard.Attrib) ([]byte, error) {
	v, err := c.card.GetAttrib(id)
	if err != nil {
		return nil, newTransportError(fmt.Sprintf("get attribute 0x%X", uint32(id)), err, c.catalog)
	}
	return v, nil
}

// Disconnect powers the card down and closes the connection.
func (c *Conn) Disconnect() error {
	return newTransportError("disconnect", c.card.Disconnect(scard.UnpowerCard), c.catalog)
}
