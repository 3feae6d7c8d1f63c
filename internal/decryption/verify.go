package decryption

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/idelchi/unveil/pkg/xordecode"
)

// Verify checks existing files for the container marker without decrypting them.
// Only the leading xordecode.Window bytes of each file are read.
func Verify(files []string, lenient bool, printer *Printer) (Summary, error) {
	var summary Summary

	for _, file := range files {
		result := Result{Input: file}

		header, err := readHeader(file)
		if err != nil {
			result.Error = err
			summary.Errored++
		} else {
			result.Header = header
			result.Verdict = xordecode.Inspect(header)
			summary.Processed++

			if !result.Verdict.Valid {
				summary.Invalid++
			}
		}

		printer.Verified(result)
	}

	if summary.Errored > 0 {
		return summary, fmt.Errorf("verifying files: %d file(s) could not be read", summary.Errored)
	}

	if summary.Invalid > 0 && !lenient {
		return summary, fmt.Errorf("%w in %d of %d file(s)", ErrMarkerNotFound, summary.Invalid, summary.Processed)
	}

	return summary, nil
}

func readHeader(filename string) ([]byte, error) {
	file, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	header := make([]byte, xordecode.Window)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	return header[:n], nil
}
