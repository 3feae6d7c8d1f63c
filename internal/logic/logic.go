// Package logic implements the command behaviour on top of the decryption packages.
package logic

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/decryption"
	"github.com/idelchi/unveil/pkg/keystream"
)

// Run decrypts the configured files with the configured keystream.
func Run(cfg *config.Config) error {
	start := time.Now()
	printer := decryption.NewPrinter(cfg.Quiet, cfg.Verbose)

	ks, err := LoadKeystream(cfg, printer)
	if err != nil {
		return err
	}

	if cfg.Dry {
		return dryRun(cfg, printer, ks, start)
	}

	summary, err := decryption.NewProcessor(cfg, ks, printer).ProcessFiles()

	if cfg.Stats {
		printStats(printer, summary, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running decryption: %w", err)
	}

	return nil
}

// RunVerify checks files for the container marker.
func RunVerify(cfg *config.Config) error {
	start := time.Now()
	printer := decryption.NewPrinter(cfg.Quiet, cfg.Verbose)

	summary, err := decryption.Verify(cfg.Files, cfg.Lenient, printer)

	if cfg.Stats {
		printStats(printer, summary, time.Since(start))
	}

	return err
}

// RunKeystream validates a keystream and optionally saves it as normalised hex.
func RunKeystream(cfg *config.Config) error {
	printer := decryption.NewPrinter(cfg.Quiet, cfg.Verbose)

	ks, err := LoadKeystream(cfg, printer)
	if err != nil {
		return err
	}

	if cfg.Save != "" {
		if err := keystream.Save(cfg.Save, ks); err != nil {
			return err
		}

		printer.Infof("Saved keystream to %q\n", cfg.Save)
	}

	return nil
}

// LoadKeystream reads the keystream from --keystream or --keystream-file
// and warns when its length is not the conventional one.
func LoadKeystream(cfg *config.Config, printer *decryption.Printer) (keystream.Keystream, error) {
	var (
		ks     keystream.Keystream
		source string
		err    error
	)

	switch {
	case cfg.Keystream != "":
		source = "--keystream"
		ks, err = keystream.Parse(cfg.Keystream)
	case cfg.KeystreamFile != "":
		source = cfg.KeystreamFile
		ks, err = keystream.Load(cfg.KeystreamFile)
	default:
		return nil, config.ErrNoKeystream
	}

	if err != nil {
		return nil, fmt.Errorf("loading keystream: %w", err)
	}

	printer.Infof("Keystream from %s: %s (%d bytes)\n", source, humanize.IBytes(uint64(ks.Len())), ks.Len())

	if !ks.Canonical() {
		printer.Warnf("Warning: keystream is %d bytes, expected %d; only the first %s of each file will be decrypted\n",
			ks.Len(), keystream.ExpectedSize, humanize.IBytes(uint64(ks.Len())))
	}

	return ks, nil
}

// dryRun previews what would be decrypted without writing anything.
func dryRun(cfg *config.Config, printer *decryption.Printer, ks keystream.Keystream, start time.Time) error {
	var summary decryption.Summary

	for _, file := range cfg.Files {
		info, err := os.Stat(file)
		if err == nil && info.IsDir() {
			err = fmt.Errorf("%q is a directory", file)
		}

		if err != nil {
			summary.Errored++

			printer.Errorf("Error processing %q: %v\n", file, err)

			continue
		}

		summary.Processed++
		summary.TotalSize += info.Size()

		prefix := min(int64(ks.Len()), info.Size())

		printer.Infof("Would decrypt %q -> %q (%s, prefix %s)\n",
			file, cfg.OutputPath(file),
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(prefix))) //nolint:gosec // sizes are non-negative

		if cfg.Delete {
			printer.Infof("Would delete %q\n", file)
		}
	}

	if cfg.Stats {
		printStats(printer, summary, time.Since(start))
	}

	if summary.Errored > 0 {
		return fmt.Errorf("dry run: %d file(s) could not be read", summary.Errored)
	}

	return nil
}

func printStats(printer *decryption.Printer, summary decryption.Summary, duration time.Duration) {
	printer.Errorf("\nStats\n")
	printer.Errorf("  Processed: %d\n", summary.Processed)
	printer.Errorf("  Invalid:   %d\n", summary.Invalid)
	printer.Errorf("  Errors:    %d\n", summary.Errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	printer.Errorf("  Size:      %s\n", humanize.IBytes(uint64(max(0, summary.TotalSize))))
	printer.Errorf("  Duration:  %s\n", duration.Round(time.Millisecond))
}
