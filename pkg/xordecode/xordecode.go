// Package xordecode reverses prefix-only XOR obfuscation of video containers.
//
// Only the leading min(len(keystream), len(data)) bytes are combined with the
// keystream; the rest of the file is copied unchanged. The result is then
// checked for the ISO base media "ftyp" box marker near the start of the file.
// A missing marker is reported through the Verdict and is not an error.
package xordecode

import (
	"bytes"
	"crypto/subtle"

	"github.com/idelchi/unveil/pkg/keystream"
)

const (
	// Marker is the container signature expected in a correctly decrypted file.
	Marker = "ftyp"
	// Window is the number of leading bytes searched for Marker.
	Window = 32
)

// Verdict classifies decrypted data by its container signature.
type Verdict struct {
	// Valid is true when Marker occurs within the first Window bytes.
	Valid bool
	// Offset of the first Marker occurrence, or -1 when not found.
	Offset int
}

// Result is the outcome of a single decryption.
type Result struct {
	// Data has the same length as the encrypted input.
	Data []byte
	// Verdict is computed on Data.
	Verdict Verdict
	// Prefix is the number of leading bytes combined with the keystream.
	Prefix int
}

// Decrypt combines the keystream with the encrypted prefix and classifies the result.
// Neither argument is modified; Result.Data is a fresh buffer.
func Decrypt(encrypted []byte, ks keystream.Keystream) Result {
	prefix := min(len(ks), len(encrypted))

	data := make([]byte, len(encrypted))

	subtle.XORBytes(data[:prefix], encrypted[:prefix], ks[:prefix])
	copy(data[prefix:], encrypted[prefix:])

	return Result{
		Data:    data,
		Verdict: Inspect(data),
		Prefix:  prefix,
	}
}

// Inspect searches the first Window bytes of data for Marker.
func Inspect(data []byte) Verdict {
	offset := bytes.Index(Header(data), []byte(Marker))

	return Verdict{Valid: offset >= 0, Offset: offset}
}

// Header returns the leading bytes of data that Inspect examines.
func Header(data []byte) []byte {
	return data[:min(Window, len(data))]
}
