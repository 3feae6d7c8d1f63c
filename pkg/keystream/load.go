package keystream

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// document is the body returned by the keystream generation service.
type document struct {
	Keystream string `json:"keystream"`
	Format    string `json:"format"`
}

// Load reads a keystream file and decodes it with Decode.
func Load(path string) (Keystream, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading keystream file %q: %w", path, err)
	}

	keystream, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing keystream file %q: %w", path, err)
	}

	return keystream, nil
}

// Decode interprets exported keystream content. Plain text is parsed as hex; a JSON (or JSONC)
// document is read as a generation service response with a "keystream" field in "hex" or "base64" format.
func Decode(data []byte) (Keystream, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FromDocument(trimmed)
	}

	return Parse(string(data))
}

// FromDocument decodes a JSONC keystream document.
func FromDocument(data []byte) (Keystream, error) {
	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding keystream document: %w", err)
	}

	switch strings.ToLower(doc.Format) {
	case "", "hex":
		return Parse(doc.Keystream)
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(doc.Keystream))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBase64Encoding, err)
		}

		return Keystream(decoded), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, doc.Format)
	}
}

// Save writes the keystream as lowercase hex text, readable only by the owner.
func Save(path string, keystream Keystream) error {
	const ownerReadWrite = 0o600

	if err := os.WriteFile(path, []byte(keystream.Hex()), ownerReadWrite); err != nil {
		return fmt.Errorf("saving keystream to %q: %w", path, err)
	}

	return nil
}
