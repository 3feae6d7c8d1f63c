package decryption

import "github.com/idelchi/unveil/pkg/xordecode"

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Input file size in bytes
	InputSize int64

	// Output file size in bytes
	OutputSize int64

	// Number of leading bytes combined with the keystream
	Prefix int

	// Container signature check on the output
	Verdict xordecode.Verdict

	// Leading bytes of the output, for verbose reporting
	Header []byte

	// Any error that occurred during processing
	Error error
}

// Summary aggregates the results of a run.
type Summary struct {
	Processed int
	Errored   int
	Invalid   int
	TotalSize int64
}
