// Package catalog maps numeric codes to human-readable descriptions.
//
// Two code spaces are kept strictly apart:
//   - Result codes (32-bit) returned by the PC/SC reader service, e.g. 0x8010000C.
//   - Status words (16-bit SW1-SW2) returned by the card, e.g. 0x6A82.
//
// A Catalog is built once at start-up and is read-only afterwards, so it is
// safe for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds the two description tables.
type Catalog struct {
	results     map[uint32]string
	statusWords map[uint16]string
}

// New builds a Catalog from explicit tables. The maps are copied.
func New(results map[uint32]string, statusWords map[uint16]string) *Catalog {
	c := &Catalog{
		results:     make(map[uint32]string, len(results)),
		statusWords: make(map[uint16]string, len(statusWords)),
	}
	for k, v := range results {
		c.results[k] = v
	}
	for k, v := range statusWords {
		c.statusWords[k] = v
	}
	return c
}

var defaultCatalog = New(pcscResults, cardStatusWords)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// DescribeResult looks up a reader-service result code.
func (c *Catalog) DescribeResult(code uint32) (string, bool) {
	if c == nil {
		return "", false
	}
	desc, ok := c.results[code]
	return desc, ok
}

// DescribeStatusWord looks up a card status word.
func (c *Catalog) DescribeStatusWord(sw uint16) (string, bool) {
	if c == nil {
		return "", false
	}
	desc, ok := c.statusWords[sw]
	return desc, ok
}

// Len returns the number of entries in each table.
func (c *Catalog) Len() (results, statusWords int) {
	return len(c.results), len(c.statusWords)
}

// file is the YAML layout accepted by Load. Keys are hexadecimal codes.
//
//	status_words:
//	  "9F10": "Proprietary: 16 bytes available"
//	results:
//	  "80100069": "The smart card has been removed"
type file struct {
	StatusWords map[string]string `yaml:"status_words"`
	Results     map[string]string `yaml:"results"`
}

// Load reads additional descriptions from YAML and returns a new Catalog
// layered on top of base. Entries in the file override those of base.
func Load(r io.Reader, base *Catalog) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	if base == nil {
		base = New(nil, nil)
	}
	out := New(base.results, base.statusWords)

	for key, desc := range f.StatusWords {
		v, err := parseCode(key, 16)
		if err != nil {
			return nil, fmt.Errorf("status_words: %w", err)
		}
		out.statusWords[uint16(v)] = desc
	}
	for key, desc := range f.Results {
		v, err := parseCode(key, 32)
		if err != nil {
			return nil, fmt.Errorf("results: %w", err)
		}
		out.results[uint32(v)] = desc
	}

	return out, nil
}

func parseCode(key string, bitSize int) (uint64, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(key), "0x"), "0X")
	v, err := strconv.ParseUint(clean, 16, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q: %w", key, err)
	}
	return v, nil
}
