// Package keystream parses exported keystreams into raw bytes.
//
// A keystream is exported as hexadecimal text. Exporters wrap lines and editors
// add indentation, so the text is filtered before decoding:
//   - space, tab, CR and LF are removed from anywhere in the text
//   - the remainder must be an even number of hex digits, in any case
//
// No particular length is enforced. ExpectedSize is the length produced by the
// usual generator, and callers decide how to report a deviation.
package keystream

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ExpectedSize is the canonical keystream length in bytes (128 KiB).
const ExpectedSize = 131072

var (
	// ErrInvalidHexEncoding is returned when keystream text has odd length or non-hex characters.
	ErrInvalidHexEncoding = errors.New("invalid hex encoding")
	// ErrInvalidBase64Encoding is returned when a base64 keystream document cannot be decoded.
	ErrInvalidBase64Encoding = errors.New("invalid base64 encoding")
	// ErrUnknownFormat is returned when a keystream document declares an unsupported format.
	ErrUnknownFormat = errors.New("unknown keystream format")
)

// Keystream is the byte sequence XOR-combined with the encrypted prefix.
// It must not be modified after construction.
type Keystream []byte

// Parse decodes whitespace-tolerant hex text into a Keystream.
func Parse(text string) (Keystream, error) {
	clean := stripWhitespace(text)

	decoded, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHexEncoding, err)
	}

	return Keystream(decoded), nil
}

// Hex returns the lowercase hex encoding of the keystream.
func (k Keystream) Hex() string {
	return hex.EncodeToString(k)
}

// Len returns the keystream length in bytes.
func (k Keystream) Len() int {
	return len(k)
}

// Canonical reports whether the keystream has the conventional ExpectedSize length.
func (k Keystream) Canonical() bool {
	return len(k) == ExpectedSize
}

// stripWhitespace removes space, tab, CR and LF. Other characters are left for the decoder to reject.
func stripWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		default:
			return r
		}
	}, text)
}
