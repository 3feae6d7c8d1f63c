// Package config holds the runtime configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gogen/pkg/validator"
)

// Config is populated from flags and UNVEIL_* environment variables.
type Config struct {
	// Keystream sources
	Keystream     string `mapstructure:"keystream"      label:"--keystream"      validate:"exclusive=KeystreamFile"`
	KeystreamFile string `mapstructure:"keystream-file" label:"--keystream-file"`

	// Output selection
	Output string `mapstructure:"output" label:"--output"`
	Suffix string `mapstructure:"suffix" label:"--suffix"`

	// Processing behaviour
	Parallel           int  `mapstructure:"parallel"            label:"--parallel" validate:"min=1"`
	Quiet              bool `mapstructure:"quiet"`
	Verbose            bool `mapstructure:"verbose"`
	Stats              bool `mapstructure:"stats"`
	Dry                bool `mapstructure:"dry-run"`
	Lenient            bool `mapstructure:"lenient"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`
	Delete             bool `mapstructure:"delete"`
	Show               bool `mapstructure:"show"`

	// keystream command
	Save string `mapstructure:"save"`

	// serve command
	Addr      string `mapstructure:"addr"       label:"--addr"`
	MaxUpload string `mapstructure:"max-upload" label:"--max-upload"`

	// Positional arguments
	Files []string `mapstructure:"-"`
}

var (
	// ErrNoKeystream is returned when neither --keystream nor --keystream-file is set.
	ErrNoKeystream = errors.New("a keystream is required: pass --keystream or --keystream-file")
	// ErrNoFiles is returned when a file command receives no paths.
	ErrNoFiles = errors.New("at least one file is required")
	// ErrOutputWithMultiple is returned when --output is combined with several inputs.
	ErrOutputWithMultiple = errors.New("--output can only be used with a single input file")
)

// Display reports whether the configuration should be shown instead of running the command.
func (c *Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags.
// Failures are reported as readable messages, such as "--keystream is mutually exclusive".
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return err
	}

	return errors.Join(validator.Validate(config)...)
}

// ValidateDecrypt applies the rules of the decrypt command.
// Struct tags are checked separately by Validate.
func (c *Config) ValidateDecrypt() error {
	if !c.HasKeystream() {
		return ErrNoKeystream
	}

	if len(c.Files) == 0 {
		return ErrNoFiles
	}

	if c.Output != "" && len(c.Files) > 1 {
		return ErrOutputWithMultiple
	}

	if c.Output == "" && c.Suffix == "" {
		return errors.New("--suffix must not be empty when --output is not set")
	}

	for _, file := range c.Files {
		if filepath.Clean(file) == filepath.Clean(c.OutputPath(file)) {
			return fmt.Errorf("output path for %q equals the input path", file)
		}
	}

	return nil
}

// ValidateKeystream applies the rules of the keystream command.
func (c *Config) ValidateKeystream() error {
	if !c.HasKeystream() {
		return ErrNoKeystream
	}

	return nil
}

// ValidateServe applies the rules of the serve command.
func (c *Config) ValidateServe() error {
	if c.Addr == "" {
		return errors.New("--addr must not be empty")
	}

	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}

	return nil
}

// HasKeystream reports whether a keystream source was configured.
func (c *Config) HasKeystream() bool {
	return c.Keystream != "" || c.KeystreamFile != ""
}

// MaxUploadBytes parses --max-upload, accepting sizes like "500MiB" or "1GB".
func (c *Config) MaxUploadBytes() (int64, error) {
	size, err := humanize.ParseBytes(c.MaxUpload)
	if err != nil {
		return 0, fmt.Errorf("parsing --max-upload %q: %w", c.MaxUpload, err)
	}

	if size == 0 {
		return 0, fmt.Errorf("--max-upload must be positive, got %q", c.MaxUpload)
	}

	return int64(min(size, 1<<62)), nil //nolint:gosec // clamped above
}

// OutputPath returns the destination for a decrypted file.
// --output wins; otherwise the suffix is inserted before the extension.
func (c *Config) OutputPath(filename string) string {
	if c.Output != "" {
		return c.Output
	}

	ext := filepath.Ext(filename)
	stem := filename[:len(filename)-len(ext)]

	return stem + c.Suffix + ext
}
