package decryption

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/unveil/pkg/xordecode"
)

// Printer writes progress to Out and problems to Err.
// Quiet suppresses everything except errors.
type Printer struct {
	Out     io.Writer
	Err     io.Writer
	Quiet   bool
	Verbose bool
}

// NewPrinter returns a Printer on stdout and stderr.
func NewPrinter(quiet, verbose bool) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Quiet: quiet, Verbose: verbose}
}

// Infof prints a progress line unless quiet.
func (p *Printer) Infof(format string, args ...any) {
	if !p.Quiet {
		fmt.Fprintf(p.Out, format, args...)
	}
}

// Warnf prints an advisory unless quiet.
func (p *Printer) Warnf(format string, args ...any) {
	if !p.Quiet {
		fmt.Fprintf(p.Err, format, args...)
	}
}

// Errorf always prints.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.Err, format, args...)
}

// Result reports the outcome of a single file.
func (p *Printer) Result(res Result) {
	if res.Error != nil {
		p.Errorf("Error processing %q: %v\n", res.Input, res.Error)

		return
	}

	p.Infof("Decrypted %q -> %q (%s, prefix %s): %s\n",
		res.Input, res.Output, size(res.OutputSize), size(int64(res.Prefix)), describe(res.Verdict))

	if p.Verbose {
		p.Infof("  header: % x\n", res.Header)
	}

	if !res.Verdict.Valid {
		p.Warnf("Warning: %q has no %q marker in the first %d bytes; check that the keystream belongs to this file\n",
			res.Output, xordecode.Marker, xordecode.Window)
	}
}

// Verified reports a signature check of an existing file.
func (p *Printer) Verified(res Result) {
	if res.Error != nil {
		p.Errorf("Error verifying %q: %v\n", res.Input, res.Error)

		return
	}

	p.Infof("%q: %s\n", res.Input, describe(res.Verdict))

	if p.Verbose {
		p.Infof("  header: % x\n", res.Header)
	}
}

func describe(verdict xordecode.Verdict) string {
	if verdict.Valid {
		return fmt.Sprintf("marker %q at offset %d", xordecode.Marker, verdict.Offset)
	}

	return fmt.Sprintf("marker %q not found", xordecode.Marker)
}

func size(n int64) string {
	return humanize.IBytes(uint64(max(0, n))) //nolint:gosec // clamped to non-negative
}
