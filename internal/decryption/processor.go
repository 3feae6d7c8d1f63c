package decryption

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/fileutil"
	"github.com/idelchi/unveil/pkg/keystream"
	"github.com/idelchi/unveil/pkg/xordecode"
)

// Processor decrypts files with a shared session keystream.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// keystream is shared read-only by all workers
	keystream keystream.Keystream

	// printer reports results from the collector goroutine
	printer *Printer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a Processor for the files in cfg.
func NewProcessor(cfg *config.Config, ks keystream.Keystream, printer *Printer) *Processor {
	return &Processor{
		cfg:       cfg,
		keystream: ks,
		printer:   printer,
		results:   make(chan Result, len(cfg.Files)),
	}
}

// ProcessFiles concurrently decrypts all files specified in the configuration.
// Files without the container marker are still written; unless the configuration is lenient,
// they make the run fail with ErrMarkerNotFound.
func (p *Processor) ProcessFiles() (Summary, error) {
	var summary Summary

	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			p.printer.Result(result)

			switch {
			case result.Error != nil:
				summary.Errored++
			default:
				summary.Processed++
				summary.TotalSize += result.OutputSize

				if !result.Verdict.Valid {
					summary.Invalid++
				}
			}

			if p.removable(result) {
				if err := os.Remove(result.Input); err != nil {
					p.printer.Errorf("Error deleting %q: %v\n", result.Input, err)
				} else {
					p.printer.Infof("Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			result := p.processFile(file, p.cfg.OutputPath(file))

			p.results <- result

			return result.Error
		})
	}

	err := group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return summary, fmt.Errorf("processing files: %w", err)
	}

	if summary.Invalid > 0 && !p.cfg.Lenient {
		return summary, fmt.Errorf("%w in %d of %d file(s)", ErrMarkerNotFound, summary.Invalid, summary.Processed)
	}

	return summary, nil
}

// removable reports whether the input of result may be deleted.
// Inputs are kept when the output lacks the container marker, unless the run is lenient.
func (p *Processor) removable(result Result) bool {
	return p.cfg.Delete && result.Error == nil && (result.Verdict.Valid || p.cfg.Lenient)
}

// processFile reads the whole input, decrypts it in memory and writes the output atomically.
func (p *Processor) processFile(filename, outPath string) Result {
	result := Result{Input: filename, Output: outPath}

	encrypted, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		result.Error = fmt.Errorf("reading input file: %w", err)

		return result
	}

	decrypted := xordecode.Decrypt(encrypted, p.keystream)

	size, err := fileutil.WriteAtomic(filename, outPath, decrypted.Data, p.cfg.PreserveTimestamps)
	if err != nil {
		result.Error = fmt.Errorf("writing output file: %w", err)

		return result
	}

	result.InputSize = int64(len(encrypted))
	result.OutputSize = size
	result.Prefix = decrypted.Prefix
	result.Verdict = decrypted.Verdict
	result.Header = bytes.Clone(xordecode.Header(decrypted.Data))

	return result
}
